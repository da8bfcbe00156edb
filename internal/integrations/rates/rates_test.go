package rates

import (
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/workhive/freelance-service/internal/config"
)

const sampleXML = `<?xml version="1.0" encoding="UTF-8"?>
<gesmes:Envelope xmlns:gesmes="http://www.gesmes.org/xml/2002-08-01" xmlns="http://www.ecb.int/vocabulary/2002-08-01/eurofxref">
	<Cube>
		<Cube time="2026-08-28">
			<Cube currency="USD" rate="1.10"/>
			<Cube currency="PKR" rate="308.00"/>
			<Cube currency="GBP" rate="0.85"/>
		</Cube>
	</Cube>
</gesmes:Envelope>`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return NewClient(&config.Config{RatesURL: srv.URL}, log)
}

func TestConvertToUSD(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(sampleXML))
	})

	got, err := c.ConvertToUSD(308, "PKR")
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-1.10) > 1e-9 {
		t.Errorf("308 PKR = %v USD, want 1.10", got)
	}

	// USD passes through without touching the network
	if got, _ := c.ConvertToUSD(42, "USD"); got != 42 {
		t.Errorf("USD passthrough = %v", got)
	}

	// second lookup served from cache
	if _, err := c.ConvertToUSD(1, "GBP"); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("expected 1 upstream fetch, got %d", calls)
	}
}

func TestConvertToUSDUnknownCurrency(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleXML))
	})
	got, err := c.ConvertToUSD(500, "XYZ")
	if err != nil {
		t.Fatal(err)
	}
	if got != 500 {
		t.Errorf("unknown currency should convert 1:1, got %v", got)
	}
}

func TestConvertToUSDUpstreamError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	})
	if _, err := c.ConvertToUSD(10, "GBP"); err == nil {
		t.Fatal("expected error when upstream fails and no cache exists")
	}
}

func TestParseMalformedXML(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<not-rates/>"))
	})
	if _, err := c.ConvertToUSD(10, "GBP"); err == nil {
		t.Fatal("expected error for XML without rate data")
	}
}

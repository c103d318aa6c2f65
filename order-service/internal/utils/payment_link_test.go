package utils

import (
	"net/url"
	"testing"
)

func TestPaymentReference_RoundTrip(t *testing.T) {
	ref := NewPaymentReference("order:42", 800000)

	orderID, amount, err := ParsePaymentReference(ref)
	if err != nil {
		t.Fatalf("ParsePaymentReference: %v", err)
	}
	if orderID != "order:42" || amount != 800000 {
		t.Fatalf("got %q %d", orderID, amount)
	}
	if other := NewPaymentReference("order:42", 800000); other == ref {
		t.Fatalf("references for the same order must differ")
	}
}

func TestParsePaymentReference_Malformed(t *testing.T) {
	for _, ref := range []string{"", "!!!", "bm8tY29sb25z"} {
		if _, _, err := ParsePaymentReference(ref); err == nil {
			t.Errorf("ParsePaymentReference(%q) succeeded", ref)
		}
	}
}

func TestPaymentLink(t *testing.T) {
	link := PaymentLink("https://payment.gateway.com/", "2", 800000, "abc")

	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if u.Host != "payment.gateway.com" || u.Path != "/pay" {
		t.Fatalf("link = %s", link)
	}
	q := u.Query()
	if q.Get("amount") != "800000" || q.Get("order") != "2" || q.Get("ref") != "abc" {
		t.Fatalf("query = %v", q)
	}
}

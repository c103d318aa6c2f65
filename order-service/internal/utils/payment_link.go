package utils

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// NewPaymentReference returns an opaque token carrying the order id and
// amount plus a random nonce so repeated links never collide.
func NewPaymentReference(orderID string, amount int64) string {
	raw := fmt.Sprintf("%s:%d:%s", orderID, amount, uuid.NewString())
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// ParsePaymentReference extracts order id and amount from a reference.
func ParsePaymentReference(ref string) (orderID string, amount int64, err error) {
	raw, err := base64.RawURLEncoding.DecodeString(ref)
	if err != nil {
		return "", 0, fmt.Errorf("malformed payment reference: %w", err)
	}
	// order ids may contain ':', so split from the right
	s := string(raw)
	last := strings.LastIndex(s, ":")
	if last < 0 {
		return "", 0, fmt.Errorf("malformed payment reference")
	}
	head := s[:last]
	mid := strings.LastIndex(head, ":")
	if mid < 0 {
		return "", 0, fmt.Errorf("malformed payment reference")
	}
	amount, err = strconv.ParseInt(head[mid+1:], 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("malformed payment reference: %w", err)
	}
	return head[:mid], amount, nil
}

func PaymentLink(gatewayURL, orderID string, amount int64, ref string) string {
	q := url.Values{}
	q.Set("amount", strconv.FormatInt(amount, 10))
	q.Set("order", orderID)
	q.Set("ref", ref)
	return strings.TrimRight(gatewayURL, "/") + "/pay?" + q.Encode()
}

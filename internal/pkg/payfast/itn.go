package payfast

import (
	"bytes"
	"encoding/json"
	"net/url"
	"sort"
	"strings"
)

// PaymentStatusComplete is the provider's sentinel for a successful payment,
// compared after normalization.
const PaymentStatusComplete = "complete"

// Notification is the normalized view of an inbound ITN payload.
type Notification struct {
	MPaymentID    string
	PfPaymentID   string
	PaymentStatus string
	Token         string
}

// IsComplete reports whether the notification carries a successful payment.
func (n Notification) IsComplete() bool {
	return n.PaymentStatus == PaymentStatusComplete
}

// ParseNotificationBody decodes an ITN body into fields regardless of the
// declared content type: JSON object bodies and form-urlencoded bodies are
// both accepted, and anything undecodable becomes an empty field set. The
// webhook must always be acknowledged, so decoding never fails hard.
func ParseNotificationBody(raw []byte) Fields {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Fields{}
	}

	if trimmed[0] == '{' {
		return parseJSONBody(trimmed)
	}
	return parseFormBody(trimmed)
}

func parseJSONBody(raw []byte) Fields {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var m map[string]interface{}
	if err := dec.Decode(&m); err != nil {
		return Fields{}
	}

	fields := make(Fields, 0, len(m))
	for k, v := range m {
		switch val := v.(type) {
		case string:
			fields = append(fields, Field{Key: k, Value: val})
		case json.Number:
			fields = append(fields, Field{Key: k, Value: val.String()})
		case bool:
			if val {
				fields = append(fields, Field{Key: k, Value: "true"})
			} else {
				fields = append(fields, Field{Key: k, Value: "false"})
			}
		case nil:
			// absent per the signing contract
		default:
			// nested structures do not participate in signing
		}
	}
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Key < fields[j].Key })
	return fields
}

func parseFormBody(raw []byte) Fields {
	values, err := url.ParseQuery(string(raw))
	if err != nil {
		return Fields{}
	}

	fields := make(Fields, 0, len(values))
	for k, vs := range values {
		if len(vs) == 0 {
			continue
		}
		fields = append(fields, Field{Key: k, Value: vs[0]})
	}
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Key < fields[j].Key })
	return fields
}

// ExtractNotification pulls the consumed fields out of a decoded payload,
// trimmed and lower-cased where the values are compared rather than echoed.
func ExtractNotification(fields Fields) Notification {
	return Notification{
		MPaymentID:    strings.ToLower(strings.TrimSpace(fields.Get("m_payment_id"))),
		PfPaymentID:   strings.TrimSpace(fields.Get("pf_payment_id")),
		PaymentStatus: strings.ToLower(strings.TrimSpace(fields.Get("payment_status"))),
		Token:         strings.TrimSpace(fields.Get("token")),
	}
}

// VerifyNotification recomputes the signature over every inbound field except
// the signature itself and compares it against the posted value. A mismatch
// is recorded, not rejected; trusting callers must check the stored flag.
func VerifyNotification(fields Fields, passphrase string) bool {
	return VerifySignature(fields.Without("signature"), passphrase, fields.Get("signature"))
}

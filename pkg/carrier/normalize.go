package carrier

import (
	"strings"
	"time"
	"unicode"
)

// PayerRole is the party responsible for a charge on a shipment.
type PayerRole string

// Payer roles accepted by the carrier.
const (
	PayerSender     PayerRole = "SENDER"
	PayerRecipient  PayerRole = "RECIPIENT"
	PayerThirdParty PayerRole = "THIRD_PARTY"
)

// ShipmentDateLayout is the format of the injected shipment date.
const ShipmentDateLayout = "2006-01-02"

// Shipment field paths touched by NormalizeShipment.
const (
	fieldPayment              = "payment"
	fieldCourierServicePayer  = "courierServicePayer"
	fieldDeclaredValuePayer   = "declaredValuePayer"
	fieldOptionsBeforePayment = "optionsBeforePayment"
	fieldReturnShipmentPayer  = "returnShipmentPayer"
	fieldDate                 = "date"
)

// ParsePayerRole maps any value onto a PayerRole.
//
// Matching ignores case, underscores, hyphens and spaces, so "Third_Party",
// "third-party" and "THIRDPARTY" are all PayerThirdParty. Everything else,
// including the legacy CONTRACT_CLIENT value, non-strings and nil, is
// PayerSender.
func ParsePayerRole(v any) PayerRole {
	s, ok := v.(string)
	if !ok {
		return PayerSender
	}

	key := strings.ToUpper(strings.Map(func(r rune) rune {
		if r == '_' || r == '-' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s))

	switch key {
	case "RECIPIENT":
		return PayerRecipient
	case "THIRDPARTY":
		return PayerThirdParty
	default:
		return PayerSender
	}
}

// NormalizeShipment returns a copy of a shipment payload whose payer fields
// hold values the carrier accepts and which always carries a date.
//
//   - payment.courierServicePayer is always set
//   - payment.declaredValuePayer is normalized only when present
//   - optionsBeforePayment.returnShipmentPayer is normalized only when present
//   - a missing, null or non-object payment becomes {courierServicePayer: SENDER}
//   - a missing or empty date becomes now formatted as YYYY-MM-DD
//
// Nested objects that are rewritten are copied; the input is never modified.
func NormalizeShipment(fields map[string]any, now time.Time) map[string]any {
	out := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		out[k] = v
	}

	payment, ok := out[fieldPayment].(map[string]any)
	if ok {
		payment = copyMap(payment)
	} else {
		payment = make(map[string]any, 1)
	}
	payment[fieldCourierServicePayer] = string(ParsePayerRole(payment[fieldCourierServicePayer]))
	if v, present := payment[fieldDeclaredValuePayer]; present {
		payment[fieldDeclaredValuePayer] = string(ParsePayerRole(v))
	}
	out[fieldPayment] = payment

	if opts, ok := out[fieldOptionsBeforePayment].(map[string]any); ok {
		if v, present := opts[fieldReturnShipmentPayer]; present {
			opts = copyMap(opts)
			opts[fieldReturnShipmentPayer] = string(ParsePayerRole(v))
			out[fieldOptionsBeforePayment] = opts
		}
	}

	switch d := out[fieldDate].(type) {
	case nil:
		out[fieldDate] = now.Format(ShipmentDateLayout)
	case string:
		if d == "" {
			out[fieldDate] = now.Format(ShipmentDateLayout)
		}
	}

	return out
}

func copyMap(m map[string]any) map[string]any {
	c := make(map[string]any, len(m)+1)
	for k, v := range m {
		c[k] = v
	}
	return c
}

package card

// The QR payload on the back carries the CNIC digits at a fixed offset.
// The payload layout is assumed, not validated: no length or checksum
// checks are performed, and a short payload just yields a short (and
// therefore non-matching) identifier.
const (
	backCNICStart = 12
	backCNICEnd   = 25
)

// BackCNIC extracts the CNIC digits from a decoded back-side payload.
// Returns "" when the payload is too short to reach the identifier.
func BackCNIC(payload string) string {
	if len(payload) <= backCNICStart {
		return ""
	}
	end := backCNICEnd
	if len(payload) < end {
		end = len(payload)
	}
	return payload[backCNICStart:end]
}

// Reconcile reports whether the printed (front OCR) and encoded (back QR)
// identifiers agree. This is the sole admission gate: both must be present
// and textually identical, otherwise the record is rejected.
func Reconcile(frontCNIC, backCNIC string) bool {
	if frontCNIC == "" || backCNIC == "" {
		return false
	}
	return frontCNIC == backCNIC
}

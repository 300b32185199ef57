package entity

// Gateway vocabulary. Cashfree reports long-form statuses; we store the
// short codes and reject anything we do not recognize.

var linkStatusByGateway = map[string]LinkStatus{
	"PAID":           LinkStatusPaid,
	"PARTIALLY_PAID": LinkStatusPartiallyPaid,
	"EXPIRED":        LinkStatusExpired,
	"CANCELLED":      LinkStatusCancelled,
}

var statusByGateway = map[string]Status{
	"SUCCESS":      StatusSuccess,
	"FAILED":       StatusFailed,
	"USER_DROPPED": StatusUserDropped,
	"CANCELLED":    StatusCancelled,
	"VOID":         StatusVoid,
	"PENDING":      StatusPending,
	"INACTIVE":     StatusInactive,
}

// MapLinkStatus normalizes a gateway link status.
func MapLinkStatus(raw string) (LinkStatus, bool) {
	s, ok := linkStatusByGateway[raw]
	return s, ok
}

// MapStatus normalizes a gateway transaction status.
func MapStatus(raw string) (Status, bool) {
	s, ok := statusByGateway[raw]
	return s, ok
}

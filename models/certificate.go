package models

// Certificate is a gift certificate attached to a user account.
type Certificate struct {
	ID            string  `json:"id"`
	Name          string  `json:"name,omitempty"`
	Value         float64 `json:"value,omitempty"`
	ExpiryDate    string  `json:"expiry_date,omitempty"`
	RecipientName string  `json:"recipient_name,omitempty"`
	Shared        bool    `json:"shared,omitempty"`
}

// PendingClaim is a gifted certificate carried into the booking form that still has to be claimed.
type PendingClaim struct {
	CertificateID string       `json:"certificate_id"`
	Certificate   *Certificate `json:"certificate,omitempty"`
}

// ClaimCertificateRequest is the body of the backend claim call.
type ClaimCertificateRequest struct {
	UserID        string `json:"user_id"`
	CertificateID string `json:"certificate_id"`
	RecipientName string `json:"recipient_name"`
}

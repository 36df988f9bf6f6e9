package entity

// QR delivery channels
const (
	ChannelInline    = "inline"
	ChannelContentID = "cid"
	ChannelPublicURL = "url"
)

// QRContentID is the content id referenced by the HTML body in CID mode
const QRContentID = "qr_ticket_cid"

// TicketRequest is the input of a ticket delivery
type TicketRequest struct {
	AttendeeID string
	Email      string
	Nombre     string
	QRURL      string
}

// QRArtifact is the resolved form of the QR image used in the email.
// Exactly one of InlineData, ContentID or PublicURL is meaningful, per Kind.
type QRArtifact struct {
	Kind       string
	InlineData string
	ContentID  string
	PublicURL  string
	Attachment *Attachment
}

// ImageSrc returns the value for the <img src> attribute
func (q QRArtifact) ImageSrc() string {
	switch q.Kind {
	case ChannelContentID:
		return "cid:" + q.ContentID
	case ChannelPublicURL:
		return q.PublicURL
	default:
		return q.InlineData
	}
}

// OutboundEmail is a message handed to a mail provider
type OutboundEmail struct {
	From        string
	To          []string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// Attachment represents an email attachment
type Attachment struct {
	Filename    string
	ContentType string
	ContentID   string
	Data        []byte
}

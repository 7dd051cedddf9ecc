package dto

import (
	"fmt"
	"strings"
)

// CCCDQRData represents the payload of the QR code printed on a Vietnamese
// citizen identity card (CCCD). Fields are separated by '|':
// id|old_id|name|dob|gender|address|issue_date
type CCCDQRData struct {
	ID        string
	OldID     string
	Name      string
	DOB       string // ddmmyyyy
	Gender    string
	Address   string
	IssueDate string // ddmmyyyy
}

// ParseCCCDQR parses a CCCD QR payload.
func ParseCCCDQR(payload string) (*CCCDQRData, error) {
	parts := strings.Split(strings.TrimSpace(payload), "|")
	if len(parts) < 6 {
		return nil, fmt.Errorf("unexpected cccd qr payload: %d fields", len(parts))
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	data := &CCCDQRData{
		ID:      parts[0],
		OldID:   parts[1],
		Name:    parts[2],
		DOB:     parts[3],
		Gender:  parts[4],
		Address: parts[5],
	}
	if len(parts) > 6 {
		data.IssueDate = parts[6]
	}
	if data.ID == "" {
		return nil, fmt.Errorf("cccd qr payload has no id")
	}
	return data, nil
}

// GetDOB returns the date of birth as dd/mm/yyyy when it is in the card's
// ddmmyyyy form.
func (q *CCCDQRData) GetDOB() string {
	return formatCardDate(q.DOB)
}

// GetIssueDate returns the issue date as dd/mm/yyyy.
func (q *CCCDQRData) GetIssueDate() string {
	return formatCardDate(q.IssueDate)
}

func formatCardDate(s string) string {
	if len(s) != 8 {
		return s
	}
	return s[0:2] + "/" + s[2:4] + "/" + s[4:8]
}

// CCCDExtractResponse represents identification data decoded from an ID card.
type CCCDExtractResponse struct {
	NationalID string `json:"national_id"`
	OldID      string `json:"old_id,omitempty"`
	Name       string `json:"name"`
	DOB        string `json:"dob"`
	Gender     string `json:"gender"`
	Address    string `json:"address"`
	IssueDate  string `json:"issue_date,omitempty"`
	Source     string `json:"source"`
}

// ApplyTo overwrites the identification fields the card carries.
func (r *CCCDExtractResponse) ApplyTo(id *Identification) {
	if r.Name != "" {
		id.FullName = r.Name
	}
	if r.NationalID != "" {
		id.NationalID = r.NationalID
	}
	if r.Address != "" {
		id.Address = r.Address
	}
}

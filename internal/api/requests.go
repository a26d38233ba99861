package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"github.com/wakala/fraudguard/internal/fraud"
)

// submitRequest is the body of POST /submit. Amount is kept raw so that both
// JSON numbers and numeric strings reach the parser unchanged.
type submitRequest struct {
	Amount                 json.RawMessage `json:"amount"`
	Currency               string          `json:"currency"`
	Location               string          `json:"location"`
	CardType               string          `json:"card_type"`
	RecipientAccountNumber string          `json:"recipient_account_number"`
	SenderAccountNumber    string          `json:"sender_account_number"`
	TransactionID          string          `json:"transaction_id"`
	Phone                  string          `json:"phone"`
}

type submitResponse struct {
	Success       bool     `json:"success"`
	Anomalous     bool     `json:"anomalous"`
	Reasons       []string `json:"reasons"`
	TransactionID string   `json:"transaction_id"`
}

type smsRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

type smsResponse struct {
	Status  string `json:"status"`
	SID     string `json:"sid,omitempty"`
	Message string `json:"message,omitempty"`
}

var errInvalidBody = errors.New("invalid request body")

func isForm(r *http.Request) bool {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return mt == "application/x-www-form-urlencoded"
}

// decodeSubmitRequest accepts a JSON body or a urlencoded form.
func decodeSubmitRequest(r *http.Request) (submitRequest, error) {
	var req submitRequest
	if isForm(r) {
		if err := r.ParseForm(); err != nil {
			return req, errInvalidBody
		}
		if amount := r.PostForm.Get("amount"); amount != "" {
			req.Amount, _ = json.Marshal(amount)
		}
		req.Currency = r.PostForm.Get("currency")
		req.Location = r.PostForm.Get("location")
		req.CardType = r.PostForm.Get("card_type")
		req.RecipientAccountNumber = r.PostForm.Get("recipient_account_number")
		req.SenderAccountNumber = r.PostForm.Get("sender_account_number")
		req.TransactionID = r.PostForm.Get("transaction_id")
		req.Phone = r.PostForm.Get("phone")
		return req, nil
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, errInvalidBody
	}
	return req, nil
}

func decodeSMSRequest(r *http.Request) (smsRequest, error) {
	var req smsRequest
	if isForm(r) {
		if err := r.ParseForm(); err != nil {
			return req, errInvalidBody
		}
		req.Phone = r.PostForm.Get("phone")
		req.Message = r.PostForm.Get("message")
		return req, nil
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, errInvalidBody
	}
	return req, nil
}

// amountText unwraps a quoted amount and passes any other literal through.
func (r submitRequest) amountText() string {
	raw := bytes.TrimSpace(r.Amount)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func (r submitRequest) toSubmission() fraud.Submission {
	return fraud.Submission{
		Amount:                 r.amountText(),
		Currency:               r.Currency,
		Location:               r.Location,
		CardType:               r.CardType,
		RecipientAccountNumber: r.RecipientAccountNumber,
		SenderAccountNumber:    r.SenderAccountNumber,
		TransactionID:          r.TransactionID,
		Phone:                  r.Phone,
	}
}

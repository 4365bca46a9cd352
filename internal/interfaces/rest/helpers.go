package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/DanielPopoola/connector-gateway/internal/apierrors"
)

const MerchantIDHeader = "X-Merchant-Id"

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// DecodeJSON reads a single JSON document from the body into v.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apierrors.InvalidRequestData("request body is empty")
		}
		return apierrors.InvalidRequestData("malformed request body: " + err.Error())
	}
	return nil
}

// MerchantID returns the calling merchant. Authentication happens upstream of
// the gateway; the header is trusted as-is.
func MerchantID(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.Header.Get(MerchantIDHeader))
	if id == "" {
		return "", apierrors.MissingRequiredField(MerchantIDHeader)
	}
	return id, nil
}

package main

import (
	"encoding/json"
	"errors"
	"net/http"
)

// AddToCartRequest is the payload of an add-to-cart call.
type AddToCartRequest struct {
	ID int64 `json:"id"`
}

// DecodeAddToCartRequestBody reads the book id of an add-to-cart request.
func DecodeAddToCartRequestBody(r *http.Request) (int64, error) {
	if r.Body == nil {
		return 0, errors.New("invalid add to cart request body")
	}
	var req AddToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return 0, err
	}
	if req.ID <= 0 {
		return 0, errors.New("book id provided is not valid")
	}
	return req.ID, nil
}

// DecodeQuantityRequestBody reads the requested quantity of a set-quantity
// call. A missing body or a value which does not parse as a number falls
// back to quantity 1, mirroring what a cleared or garbled quantity input
// means on the cart page.
func DecodeQuantityRequestBody(r *http.Request) int64 {
	if r.Body == nil {
		return 1
	}
	var req struct {
		Qty json.Number `json:"qty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return 1
	}
	qty, err := req.Qty.Int64()
	if err != nil {
		return 1
	}
	return qty
}

// DecodeDeltaRequestBody reads the delta of a quantity adjust call. Only
// single step adjustments are accepted.
func DecodeDeltaRequestBody(r *http.Request) (int64, error) {
	if r.Body == nil {
		return 0, errors.New("invalid adjust quantity request body")
	}
	var req struct {
		Delta int64 `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return 0, err
	}
	if req.Delta != 1 && req.Delta != -1 {
		return 0, errors.New("delta must be 1 or -1")
	}
	return req.Delta, nil
}

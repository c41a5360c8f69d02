// Package http provides the JSON API server and its handlers.
//
// This file implements utilities for parsing and validating HTTP request data:
// query parameters with current-date defaults and strict JSON bodies.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ChongZhe001025/FinTrack-sub000/internal/core"
)

const maxBodyBytes = 1 << 20

// errMalformedBody marks a request body that is not the expected JSON.
var errMalformedBody = errors.New("malformed request body")

// ParseMonthParam reads ?month=YYYY-MM, defaulting to now's month.
func ParseMonthParam(r *http.Request, now time.Time) (core.YearMonth, error) {
	v := strings.TrimSpace(r.URL.Query().Get("month"))
	if v == "" {
		return core.YearMonthOf(now), nil
	}
	return core.ParseYearMonth(v)
}

// ParseYearParam reads ?year=YYYY, defaulting to now's year.
func ParseYearParam(r *http.Request, now time.Time) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get("year"))
	if v == "" {
		return now.Year(), nil
	}
	y, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", core.ErrInvalidYear, v)
	}
	return y, core.ValidateYear(y)
}

// ParsePeriodParams reads ?start=&end= as a half-open day range. With
// neither given it is now's month; giving only one bound is an error.
func ParsePeriodParams(r *http.Request, now time.Time) (core.Period, error) {
	q := r.URL.Query()
	start := strings.TrimSpace(q.Get("start"))
	end := strings.TrimSpace(q.Get("end"))
	switch {
	case start == "" && end == "":
		return core.YearMonthOf(now).Window(), nil
	case start == "" || end == "":
		return core.Period{}, fmt.Errorf("%w: start and end go together", core.ErrInvalidPeriod)
	}
	return core.NewPeriod(start, end)
}

// ParseDaysParam reads ?days=N. Anything unparsable yields 0, which the
// report service treats like any other unsupported window.
func ParseDaysParam(r *http.Request) int {
	d, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("days")))
	if err != nil {
		return 0
	}
	return d
}

// decodeJSON decodes a single JSON object into dst, rejecting unknown
// fields, trailing data and bodies over maxBodyBytes.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errMalformedBody, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing data", errMalformedBody)
	}
	return nil
}

// amountField accepts an amount written as a JSON number or string.
type amountField string

func (a *amountField) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*a = amountField(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*a = amountField(n.String())
	return nil
}

// Positive parses a strictly positive amount with at most cent precision.
func (a amountField) Positive() (decimal.Decimal, error) {
	return core.ParseAmount(string(a))
}

// NonNegative parses a limit where zero is allowed.
func (a amountField) NonNegative() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(string(a)))
	if err != nil || d.IsNegative() || !core.FitsMinor(d) {
		return decimal.Zero, fmt.Errorf("%w: %q", core.ErrInvalidAmount, string(a))
	}
	return d.Round(2), nil
}

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	// Remove control characters except tab, newline, carriage return
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

package booking

import (
	"errors"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 5, 9, 30, 0, 0, time.UTC)
	valid := Request{
		SupplierID: "SUP-001",
		Date:       "2025-03-06",
		StartTime:  "07:00",
		EndTime:    "08:00",
	}

	wantKind := func(t *testing.T, err error, kind ValidationKind) {
		t.Helper()
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("expected *ValidationError, got %v", err)
		}
		if ve.Kind != kind {
			t.Fatalf("expected kind %s, got %s (%s)", kind, ve.Kind, ve.Message)
		}
	}

	t.Run("accepts a valid future booking", func(t *testing.T) {
		v, err := Validate(valid, now)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if v.SupplierID != "SUP-001" {
			t.Fatalf("expected supplier SUP-001, got %s", v.SupplierID)
		}
		if v.SlotDescriptor != "0603202507000800" {
			t.Fatalf("expected descriptor 0603202507000800, got %s", v.SlotDescriptor)
		}
	})

	t.Run("accepts RFC3339 dates from the web picker", func(t *testing.T) {
		req := valid
		req.Date = "2025-03-06T00:00:00.000Z"
		if _, err := Validate(req, now); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		mutations := map[string]func(r *Request){
			"supplier": func(r *Request) { r.SupplierID = "" },
			"date":     func(r *Request) { r.Date = "" },
			"start":    func(r *Request) { r.StartTime = "" },
			"end":      func(r *Request) { r.EndTime = "" },
			"blank":    func(r *Request) { r.SupplierID = "   " },
		}
		for name, mutate := range mutations {
			t.Run(name, func(t *testing.T) {
				req := valid
				mutate(&req)
				_, err := Validate(req, now)
				wantKind(t, err, MissingField)
			})
		}
	})

	t.Run("malformed slot boundaries", func(t *testing.T) {
		req := valid
		req.StartTime = "7am"
		_, err := Validate(req, now)
		wantKind(t, err, InvalidSlotShape)

		req = valid
		req.EndTime = "8"
		_, err = Validate(req, now)
		wantKind(t, err, InvalidSlotShape)
	})

	t.Run("unparseable date", func(t *testing.T) {
		req := valid
		req.Date = "tomorrow"
		_, err := Validate(req, now)
		wantKind(t, err, InvalidSlotShape)
	})

	t.Run("well-formed slot outside the daily grid", func(t *testing.T) {
		req := valid
		req.StartTime = "07:30"
		req.EndTime = "08:30"
		_, err := Validate(req, now)
		wantKind(t, err, SlotNotBookable)

		req = valid
		req.StartTime = "16:00"
		req.EndTime = "17:00"
		_, err = Validate(req, now)
		wantKind(t, err, SlotNotBookable)
	})

	t.Run("elapsed slot on the current day", func(t *testing.T) {
		req := valid
		req.Date = "2025-03-05"
		req.StartTime = "09:00"
		req.EndTime = "10:00"
		_, err := Validate(req, now)
		wantKind(t, err, SlotNotBookable)
	})

	t.Run("past date", func(t *testing.T) {
		req := valid
		req.Date = "2025-03-04"
		_, err := Validate(req, now)
		wantKind(t, err, SlotNotBookable)
	})
}

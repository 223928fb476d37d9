package core

import (
	"reflect"
	"testing"
)

func TestAvailableTimesSegunda(t *testing.T) {
	want := []string{"07:00", "08:00", "09:00", "10:00", "11:00", "16:00", "17:00", "18:00", "19:00"}
	got := AvailableTimes("Segunda")
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestAvailableTimesTerca(t *testing.T) {
	// Tuesday's afternoon window opens an hour earlier.
	got := AvailableTimes("Terça")
	want := []string{"07:00", "08:00", "09:00", "10:00", "11:00", "15:00", "16:00", "17:00", "18:00", "19:00"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestAvailableTimesUnknownDay(t *testing.T) {
	if got := AvailableTimes("Domingo"); got != nil {
		t.Fatalf("expected nil for a closed day, got %v", got)
	}
}

func TestIsClassTime(t *testing.T) {
	cases := []struct {
		day  string
		hour int
		want bool
	}{
		{"Segunda", 7, true},
		{"Segunda", 11, true},
		{"Segunda", 12, false}, // end is exclusive
		{"Segunda", 15, false},
		{"Segunda", 16, true},
		{"Segunda", 19, true},
		{"Segunda", 20, false},
		{"Terça", 15, true},
		{"Sábado", 10, false},
	}
	for _, tc := range cases {
		if got := IsClassTime(tc.day, tc.hour); got != tc.want {
			t.Fatalf("%s %02d:00: got %v want %v", tc.day, tc.hour, got, tc.want)
		}
	}
}

func TestParseHour(t *testing.T) {
	h, err := ParseHour("08:00")
	if err != nil || h != 8 {
		t.Fatalf("got %d, %v", h, err)
	}
	if _, err := ParseHour("night"); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := ParseHour("25:00"); err == nil {
		t.Fatalf("expected error for out-of-range hour")
	}
}

func TestValidateSlot(t *testing.T) {
	if err := ValidateSlot("Segunda", "08:00"); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := ValidateSlot("Segunda", "13:00"); err != ErrSlotUnavailable {
		t.Fatalf("expected ErrSlotUnavailable, got %v", err)
	}
	if err := ValidateSlot("Domingo", "08:00"); err != ErrSlotUnavailable {
		t.Fatalf("expected ErrSlotUnavailable, got %v", err)
	}
}

func TestGridTimes(t *testing.T) {
	got := GridTimes()
	if len(got) != 14 {
		t.Fatalf("grid spans 07:00..20:00, got %d slots", len(got))
	}
	if got[0] != "07:00" || got[13] != "20:00" {
		t.Fatalf("got %v", got)
	}
}

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type seatInput struct {
	SeatNumber string `json:"seat_number" validate:"required,max=10,seatnumber"`
	Status     string `json:"status" validate:"omitempty,oneof=available maintenance"`
	MovieID    int64  `json:"movie_id" validate:"omitempty,gt=0"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name  string
		input seatInput
		want  map[string]string
	}{
		{
			name:  "valid",
			input: seatInput{SeatNumber: "A1", Status: "available"},
		},
		{
			name:  "missing seat number",
			input: seatInput{},
			want:  map[string]string{"seat_number": "This field is required"},
		},
		{
			name:  "bad seat number",
			input: seatInput{SeatNumber: "1A"},
			want:  map[string]string{"seat_number": "Must be a row letter followed by a number, e.g. A1"},
		},
		{
			name:  "bad status",
			input: seatInput{SeatNumber: "B12", Status: "booked"},
			want:  map[string]string{"status": "Must be one of: available, maintenance"},
		},
		{
			name:  "negative movie",
			input: seatInput{SeatNumber: "B12", MovieID: -1},
			want:  map[string]string{"movie_id": "Must be greater than 0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateStruct(tt.input)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatValidationErrors_Sorted(t *testing.T) {
	got := FormatValidationErrors(map[string]string{
		"title":    "This field is required",
		"duration": "Must be greater than 0",
	})
	assert.Equal(t, "duration: Must be greater than 0; title: This field is required", got)
}

package weather

import (
	"context"

	"hangar/pkg/models"
)

// Gateway fetches a point-in-time weather reading for a free-text location.
// Any non-success outcome (timeout, malformed body, missing fields, empty
// location) must surface as *custom_error.WeatherUnavailableError; defaults
// are never substituted.
type Gateway interface {
	FetchSnapshot(ctx context.Context, location string) (models.WeatherSnapshot, error)
}

package scoring

import "fmt"

// Band is one of the five fixed categorical scoring bands.
type Band struct {
	Label    string
	Lo       float64
	Hi       float64
	Midpoint float64
}

var bands = []Band{
	{Label: "0-20", Lo: 0, Hi: 20, Midpoint: 10},
	{Label: "21-40", Lo: 21, Hi: 40, Midpoint: 30},
	{Label: "41-60", Lo: 41, Hi: 60, Midpoint: 50},
	{Label: "61-80", Lo: 61, Hi: 80, Midpoint: 70},
	{Label: "81-100", Lo: 81, Hi: 100, Midpoint: 90},
}

// Bands returns the five categorical bands in ascending order.
func Bands() []Band {
	return bands
}

// BandFor locates the band containing score.
// Returns ErrOutOfBand when the score falls outside 0-100.
func BandFor(score float64) (Band, error) {
	for _, b := range bands {
		if score >= b.Lo && score <= b.Hi {
			return b, nil
		}
	}
	return Band{}, fmt.Errorf("%w: %.2f", ErrOutOfBand, score)
}

// BandByLabel locates a band by its label (e.g. "61-80").
func BandByLabel(label string) (Band, error) {
	for _, b := range bands {
		if b.Label == label {
			return b, nil
		}
	}
	return Band{}, fmt.Errorf("%w: %q", ErrOutOfBand, label)
}

package incident

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memoryPort struct {
	incidents  []Incident
	listCalls  int
	uploadErr  error
	uploadCall int
}

func (m *memoryPort) List(ctx context.Context) ([]Incident, error) {
	m.listCalls++
	out := make([]Incident, len(m.incidents))
	copy(out, m.incidents)
	return out, nil
}

func (m *memoryPort) Get(ctx context.Context, id int64) (Incident, error) {
	for _, inc := range m.incidents {
		if inc.ID == id {
			return inc, nil
		}
	}
	return Incident{}, errors.New("not found")
}

func (m *memoryPort) Create(ctx context.Context, p Payload) (Incident, error) {
	inc := Incident{
		ID:          int64(len(m.incidents) + 1),
		BookingID:   p.BookingID,
		Kind:        p.Kind,
		Description: p.Description,
		TotalCost:   p.TotalCost,
	}
	m.incidents = append(m.incidents, inc)
	return inc, nil
}

func (m *memoryPort) Update(ctx context.Context, id int64, p Payload) (Incident, error) {
	return Incident{}, errors.New("not found")
}

func (m *memoryPort) Delete(ctx context.Context, id int64) error { return nil }

func (m *memoryPort) UploadImage(ctx context.Context, id int64, filename, contentType string, data []byte) (Incident, error) {
	m.uploadCall++
	if m.uploadErr != nil {
		return Incident{}, m.uploadErr
	}
	for i := range m.incidents {
		if m.incidents[i].ID == id {
			m.incidents[i].ImageURL = "/uploads/" + filename
			return m.incidents[i], nil
		}
	}
	return Incident{}, errors.New("not found")
}

func TestFileWithImage(t *testing.T) {
	port := &memoryPort{}
	svc := NewService(port, nil, time.Minute)

	image := &ImageUpload{Filename: "damage.jpg", ContentType: "image/jpeg", Data: []byte("jpeg")}
	created, err := svc.File(context.Background(), Payload{BookingID: 7, Kind: KindSea, Description: "Container breached in transit", TotalCost: 1500}, image)
	require.NoError(t, err)
	require.Equal(t, "/uploads/damage.jpg", created.ImageURL)
	require.Equal(t, 1, port.listCalls)
}

func TestFileSurvivesImageUploadFailure(t *testing.T) {
	port := &memoryPort{uploadErr: errors.New("upstream unavailable")}
	svc := NewService(port, nil, time.Minute)

	image := &ImageUpload{Filename: "damage.jpg", ContentType: "image/jpeg", Data: []byte("jpeg")}
	created, err := svc.File(context.Background(), Payload{BookingID: 7, Kind: KindLand, Description: "Truck rollover on NLEX", TotalCost: 9000}, image)
	require.NoError(t, err)
	require.Empty(t, created.ImageURL)
	require.Equal(t, 1, port.uploadCall)
	require.Len(t, port.incidents, 1)
}

func TestOfBookingAndTotalCost(t *testing.T) {
	port := &memoryPort{incidents: []Incident{
		{ID: 1, BookingID: 7, Kind: KindSea, TotalCost: 100},
		{ID: 2, BookingID: 7, Kind: KindLand, TotalCost: 250.5},
		{ID: 3, BookingID: 9, Kind: KindSea, TotalCost: 999},
	}}
	svc := NewService(port, nil, time.Minute)

	_, err := svc.FetchAll(context.Background())
	require.NoError(t, err)

	require.Len(t, svc.OfBooking(7), 2)
	require.InDelta(t, 350.5, svc.TotalCostOf(7), 0.001)
	require.Zero(t, svc.TotalCostOf(42))
}

func TestKindLabels(t *testing.T) {
	require.Equal(t, "Sea Incident", KindSea.Label())
	require.Equal(t, "Land Incident", KindLand.Label())
	require.True(t, KindSea.Valid())
	require.False(t, Kind("AIR").Valid())
}

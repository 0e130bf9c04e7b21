package containers

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

type memoryPort struct {
	containers []Container
	listCalls  int
}

func (m *memoryPort) List(ctx context.Context) ([]Container, error) {
	m.listCalls++
	out := make([]Container, len(m.containers))
	copy(out, m.containers)
	return out, nil
}

func (m *memoryPort) Get(ctx context.Context, id int64) (Container, error) {
	for _, c := range m.containers {
		if c.ID == id {
			return c, nil
		}
	}
	return Container{}, context.Canceled
}

func (m *memoryPort) Create(ctx context.Context, p Payload) (Container, error) {
	c := Container{ID: int64(len(m.containers) + 1), ContainerNumber: p.ContainerNumber, Size: p.Size, BookingID: p.BookingID, Status: StatusInUse}
	m.containers = append(m.containers, c)
	return c, nil
}

func (m *memoryPort) Update(ctx context.Context, id int64, p Payload) (Container, error) {
	return Container{}, context.Canceled
}

func (m *memoryPort) Delete(ctx context.Context, id int64) error { return nil }

func (m *memoryPort) MarkReturned(ctx context.Context, id int64) (Container, error) {
	for i := range m.containers {
		if m.containers[i].ID == id {
			now := time.Now()
			m.containers[i].Status = StatusReturned
			m.containers[i].ReturnedAt = &now
			return m.containers[i], nil
		}
	}
	return Container{}, context.Canceled
}

func TestMarkReturnedRefetchesOnce(t *testing.T) {
	port := &memoryPort{containers: []Container{
		{ID: 1, ContainerNumber: "CNU1234567", Size: "20FT", BookingID: 7, Status: StatusInUse},
	}}
	svc := NewService(port, nil, time.Minute)

	updated, err := svc.MarkReturned(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, StatusReturned, updated.Status)
	require.NotNil(t, updated.ReturnedAt)
	require.Equal(t, 1, port.listCalls)
}

func TestPayloadAcceptsEverySize(t *testing.T) {
	v := validator.New()
	for _, size := range []string{"LCL", "20FT", "40FT"} {
		p := Payload{ContainerNumber: "CNU1234567", Size: size}
		require.NoError(t, v.Struct(p), "size %s", size)
	}
	require.Error(t, v.Struct(Payload{ContainerNumber: "CNU1234567", Size: "45FT"}))
}

func TestOfBookingExcludesReturned(t *testing.T) {
	port := &memoryPort{containers: []Container{
		{ID: 1, ContainerNumber: "CNU1234567", Size: "20FT", BookingID: 7, Status: StatusInUse},
		{ID: 2, ContainerNumber: "CNU7654321", Size: "40FT", BookingID: 7, Status: StatusReturned},
		{ID: 3, ContainerNumber: "CNU0000001", Size: "20FT", BookingID: 9, Status: StatusInUse},
	}}
	svc := NewService(port, nil, time.Minute)

	_, err := svc.FetchAll(context.Background())
	require.NoError(t, err)

	assigned := svc.OfBooking(7)
	require.Len(t, assigned, 1)
	require.Equal(t, "CNU1234567", assigned[0].ContainerNumber)
}

package fleet

import (
	"context"
	"errors"
	"testing"

	"auto-shipping/internal/models"
)

// fakeAssignRepo keeps everything in memory so carrier selection can be
// tested without PostGIS.
type fakeAssignRepo struct {
	pickupLat, pickupLng float64
	vehicleCount         int
	carriers             []*models.Carrier

	assignedCarrierID string
	carrierStatuses   map[string]string
}

func (f *fakeAssignRepo) GetShipmentPickup(ctx context.Context, shipmentID int) (float64, float64, int, error) {
	return f.pickupLat, f.pickupLng, f.vehicleCount, nil
}

func (f *fakeAssignRepo) ListIdleCarriers(ctx context.Context) ([]*models.Carrier, error) {
	return f.carriers, nil
}

func (f *fakeAssignRepo) AssignShipment(ctx context.Context, shipmentID int, carrierID string) error {
	f.assignedCarrierID = carrierID
	return nil
}

func (f *fakeAssignRepo) UpdateCarrierStatus(ctx context.Context, carrierID, status string) error {
	if f.carrierStatuses == nil {
		f.carrierStatuses = make(map[string]string)
	}
	f.carrierStatuses[carrierID] = status
	return nil
}

func TestAssignShipmentPicksNearestCarrier(t *testing.T) {
	// Pickup in Los Angeles; one carrier in San Diego, one in Seattle.
	repo := &fakeAssignRepo{
		pickupLat:    34.0522,
		pickupLng:    -118.2437,
		vehicleCount: 1,
		carriers: []*models.Carrier{
			{ID: "seattle", Latitude: 47.6062, Longitude: -122.3321, VehicleSlots: 9},
			{ID: "san-diego", Latitude: 32.7157, Longitude: -117.1611, VehicleSlots: 9},
		},
	}
	svc := NewAssignService(repo)

	carrier, err := svc.AssignShipment(context.Background(), 1)
	if err != nil {
		t.Fatalf("AssignShipment: %v", err)
	}
	if carrier.ID != "san-diego" {
		t.Errorf("assigned %s, want san-diego", carrier.ID)
	}
	if repo.assignedCarrierID != "san-diego" {
		t.Errorf("shipment updated with %s, want san-diego", repo.assignedCarrierID)
	}
	if repo.carrierStatuses["san-diego"] != models.CarrierStatusInTransit {
		t.Errorf("carrier status = %s, want %s", repo.carrierStatuses["san-diego"], models.CarrierStatusInTransit)
	}
}

func TestAssignShipmentSkipsCarriersWithoutCapacity(t *testing.T) {
	repo := &fakeAssignRepo{
		pickupLat:    34.0522,
		pickupLng:    -118.2437,
		vehicleCount: 5,
		carriers: []*models.Carrier{
			// Closer, but only 3 slots.
			{ID: "small-rig", Latitude: 34.05, Longitude: -118.25, VehicleSlots: 3},
			{ID: "big-rig", Latitude: 47.6062, Longitude: -122.3321, VehicleSlots: 9},
		},
	}
	svc := NewAssignService(repo)

	carrier, err := svc.AssignShipment(context.Background(), 1)
	if err != nil {
		t.Fatalf("AssignShipment: %v", err)
	}
	if carrier.ID != "big-rig" {
		t.Errorf("assigned %s, want big-rig", carrier.ID)
	}
}

func TestAssignShipmentNoCarriersAvailable(t *testing.T) {
	repo := &fakeAssignRepo{
		pickupLat:    34.0522,
		pickupLng:    -118.2437,
		vehicleCount: 5,
		carriers: []*models.Carrier{
			{ID: "small-rig", Latitude: 34.05, Longitude: -118.25, VehicleSlots: 3},
		},
	}
	svc := NewAssignService(repo)

	if _, err := svc.AssignShipment(context.Background(), 1); !errors.Is(err, models.ErrNoCarriersAvailable) {
		t.Errorf("err = %v, want ErrNoCarriersAvailable", err)
	}
}

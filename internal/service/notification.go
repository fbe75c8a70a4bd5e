package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"ridenow/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationDriverAssigned NotificationType = "DRIVER_ASSIGNED"
	NotificationRideCompleted  NotificationType = "RIDE_COMPLETED"
	NotificationRideCancelled  NotificationType = "RIDE_CANCELLED"
	NotificationFareDebited    NotificationType = "FARE_DEBITED"
)

// NotificationService delivers ride lifecycle notifications. Delivery is
// log-based here; a push/SMS client would slot in behind the same methods.
type NotificationService struct {
	log *logrus.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(log *logrus.Logger) *NotificationService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &NotificationService{log: log}
}

// NotifyDriverAssigned tells the rider a driver was found.
func (s *NotificationService) NotifyDriverAssigned(ctx context.Context, ride *domain.Ride) error {
	s.log.WithFields(logrus.Fields{
		"type":      NotificationDriverAssigned,
		"ride_id":   ride.ID,
		"rider_id":  ride.RiderID,
		"driver_id": ride.DriverID,
	}).Info("driver assigned")
	return nil
}

// NotifyRideCompleted tells both parties the ride finished and the fare was
// settled.
func (s *NotificationService) NotifyRideCompleted(ctx context.Context, ride *domain.Ride) error {
	s.log.WithFields(logrus.Fields{
		"type":      NotificationRideCompleted,
		"ride_id":   ride.ID,
		"rider_id":  ride.RiderID,
		"driver_id": ride.DriverID,
		"fare":      ride.Fare.StringFixed(2),
	}).Info("ride completed")
	return nil
}

// NotifyRideCancelled tells the affected party the ride was cancelled.
func (s *NotificationService) NotifyRideCancelled(ctx context.Context, ride *domain.Ride) error {
	s.log.WithFields(logrus.Fields{
		"type":     NotificationRideCancelled,
		"ride_id":  ride.ID,
		"rider_id": ride.RiderID,
		"reason":   ride.CancelReason,
	}).Info("ride cancelled")
	return nil
}

package notification

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"hotel-booking-backend/internal/model"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool sends booking confirmations to the customer's browsers.
type WorkerPool struct {
	size    int
	jobs    chan int64
	db      *gorm.DB
	webpush *webpush.Options
	sender  NotificationSender
}

// PoolOption configures a WorkerPool.
type PoolOption func(*WorkerPool)

// WithSender replaces the web push client.
func WithSender(sender NotificationSender) PoolOption {
	return func(wp *WorkerPool) { wp.sender = sender }
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options, opts ...PoolOption) *WorkerPool {
	if size < 1 {
		size = 1
	}
	wp := &WorkerPool{
		size:    size,
		jobs:    make(chan int64, size*16),
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
	for _, opt := range opts {
		opt(wp)
	}
	return wp
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Worker %d started", id)
	for {
		select {
		case bookingID := <-wp.jobs:
			wp.sendNotificationsForBooking(ctx, bookingID)
		case <-ctx.Done():
			log.Printf("Worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues a confirmation for the booking. It never blocks; when the
// queue is full the confirmation is dropped.
func (wp *WorkerPool) Dispatch(bookingID int64) {
	select {
	case wp.jobs <- bookingID:
	default:
		log.Printf("Notification queue full, dropping confirmation for booking %d", bookingID)
	}
}

// sendNotificationsForBooking loads the booking and pushes the confirmation
// to every subscription of its customer.
func (wp *WorkerPool) sendNotificationsForBooking(ctx context.Context, bookingID int64) {
	var booking model.Booking
	if err := wp.db.WithContext(ctx).Preload("Room").First(&booking, bookingID).Error; err != nil {
		log.Printf("Error fetching booking %d: %v", bookingID, err)
		return
	}

	var subscriptions []model.PushSubscription
	if err := wp.db.WithContext(ctx).
		Where("customer_id = ?", booking.CustomerID).
		Find(&subscriptions).Error; err != nil {
		log.Printf("Error fetching subscriptions for customer %d: %v", booking.CustomerID, err)
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	log.Printf("Sending %d notifications for booking %d", len(subscriptions), bookingID)
	message := confirmationMessage(booking)
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, []byte(message))
	}
}

func confirmationMessage(b model.Booking) string {
	room := "your room"
	if b.Room != nil && b.Room.Description != "" {
		room = b.Room.Description
	} else if b.RoomID != nil {
		room = fmt.Sprintf("%d", *b.RoomID)
	}
	return fmt.Sprintf("Room %s is booked from %s to %s.",
		room, b.StartDate.Format(time.DateOnly), b.EndDate.Format(time.DateOnly))
}

// sendNotification sends a single web push notification.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == http.StatusGone {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}

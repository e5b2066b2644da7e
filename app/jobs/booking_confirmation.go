// Package jobs holds the background jobs dispatched by the booking flow.
package jobs

import (
	"fmt"

	"github.com/dnguyen-dev/bistro/app/services"
	"github.com/dnguyen-dev/bistro/pkg/event"
	"github.com/dnguyen-dev/bistro/pkg/logger"
	"github.com/dnguyen-dev/bistro/pkg/mail"
	"github.com/dnguyen-dev/bistro/pkg/queue"
)

// BookingConfirmationJob emails the customer after their payment
// completed. It carries everything it needs so the worker never has to
// reload the booking.
type BookingConfirmationJob struct {
	Code         string  `json:"code"`
	Email        string  `json:"email"`
	CustomerName string  `json:"customerName"`
	TableNumber  int     `json:"tableNumber"`
	Date         string  `json:"date"`
	Time         string  `json:"time"`
	Guests       int     `json:"guests"`
	Total        float64 `json:"total"`
}

func (BookingConfirmationJob) Name() string { return "booking.confirmation" }

func (j BookingConfirmationJob) Handle() error {
	if j.Email == "" {
		logger.Warn("jobs: booking has no email, skipping confirmation", "code", j.Code)
		return nil
	}

	body := fmt.Sprintf(
		`<h1>Reservation confirmed</h1>
<p>Hi %s, your table is booked.</p>
<ul>
  <li>Booking code: <strong>%s</strong></li>
  <li>Table %d, %d guests</li>
  <li>%s at %s</li>
  <li>Total paid: %s</li>
</ul>`,
		j.CustomerName, j.Code, j.TableNumber, j.Guests, j.Date, j.Time,
		services.FormatCurrency(j.Total),
	)

	return mail.To(j.Email).
		Subject(fmt.Sprintf("Reservation %s confirmed", j.Code)).
		Body(body).
		Send()
}

// Register wires the job type into the queue and subscribes it to the
// booking-completed event. Call once at boot.
func Register() {
	queue.Register(func() queue.Job { return &BookingConfirmationJob{} })

	event.Listen(event.BookingCompleted, func(payload any) {
		p, ok := payload.(services.BookingCompletedPayload)
		if !ok || p.Record == nil {
			return
		}
		job := BookingConfirmationJob{
			Code:         p.Record.Code,
			Email:        p.Reservation.CustomerEmail,
			CustomerName: p.Reservation.CustomerName,
			TableNumber:  p.Reservation.TableNumber,
			Date:         p.Reservation.Date,
			Time:         p.Reservation.Time,
			Guests:       p.Reservation.Guests,
			Total:        p.Record.Total,
		}
		if err := queue.Dispatch(job); err != nil {
			logger.Error("jobs: dispatch confirmation", "code", job.Code, "error", err)
		}
	})
}

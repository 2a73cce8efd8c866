package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/elmo3159/Pokeseal-sub000/pkg/models"
	"github.com/sony/gobreaker"
)

// ErrUnavailable is returned while the queue breaker is open.
var ErrUnavailable = errors.New("notification queue unavailable")

// SQSAPI is the subset of the SQS client used by SQSNotifier.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSNotifier implements the Notifier interface using AWS SQS. Sends go
// through a circuit breaker so a failing queue does not slow down trades.
type SQSNotifier struct {
	Client   SQSAPI
	QueueURL string

	cb *gobreaker.CircuitBreaker
}

// NewSQSNotifier creates a new SQSNotifier.
func NewSQSNotifier(client SQSAPI, queueURL string) *SQSNotifier {
	return &SQSNotifier{
		Client:   client,
		QueueURL: queueURL,
		cb:       newCircuitBreaker(),
	}
}

var _ Notifier = (*SQSNotifier)(nil)

// Notify sends the notification to an SQS queue for later delivery.
func (s *SQSNotifier) Notify(ctx context.Context, n models.Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification for SQS: %w", err)
	}

	_, err = s.cb.Execute(func() (interface{}, error) {
		return s.Client.SendMessage(ctx, &sqs.SendMessageInput{
			QueueUrl:    aws.String(s.QueueURL),
			MessageBody: aws.String(string(body)),
		})
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if err != nil {
		return fmt.Errorf("failed to send message to SQS: %w", err)
	}
	return nil
}

func newCircuitBreaker() *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "notifications",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if to == gobreaker.StateOpen {
				slog.Warn("notification queue seems down, stop sending", "breaker", name)
			}
			if from == gobreaker.StateHalfOpen && to == gobreaker.StateClosed {
				slog.Info("notification queue recovered", "breaker", name)
			}
		},
	})
}

// Decode parses a notification from a queue message body.
func Decode(body string) (models.Notification, error) {
	var n models.Notification
	if err := json.Unmarshal([]byte(body), &n); err != nil {
		return n, fmt.Errorf("failed to unmarshal notification: %w", err)
	}
	if n.UserId == "" || n.Kind == "" {
		return n, fmt.Errorf("notification is missing user or kind")
	}
	return n, nil
}

package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/PYAG1/scheduling-agent/internal/instrumentation"
)

// maxPageSize is the largest page the Events.List endpoint returns.
const maxPageSize = 2500

var errEnoughEvents = errors.New("enough events")

// Client wraps the Google Calendar service
type Client struct {
	svc     *calendar.Service
	limiter *rate.Limiter
	metrics *instrumentation.Metrics
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	limiter    *rate.Limiter
	metrics    *instrumentation.Metrics
	apiOptions []option.ClientOption
}

// WithRateLimiter makes every API call wait on l first.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(o *clientOptions) { o.limiter = l }
}

// WithMetrics records every API call on m.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(o *clientOptions) { o.metrics = m }
}

// WithEndpoint overrides the API base URL.
func WithEndpoint(url string) Option {
	return func(o *clientOptions) { o.apiOptions = append(o.apiOptions, option.WithEndpoint(url)) }
}

// NewClient creates a Calendar client that authenticates through httpClient.
func NewClient(ctx context.Context, httpClient *http.Client, opts ...Option) (*Client, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("http client cannot be nil")
	}

	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}

	apiOpts := append([]option.ClientOption{option.WithHTTPClient(httpClient)}, o.apiOptions...)
	svc, err := calendar.NewService(ctx, apiOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	return &Client{
		svc:     svc,
		limiter: o.limiter,
		metrics: o.metrics,
	}, nil
}

// ListEvents lists single (expanded) events overlapping [timeMin, timeMax)
// ordered by start time. At most maxResults events are returned; zero means
// no limit.
func (c *Client) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time, maxResults int64) ([]EventSummary, error) {
	ctx, span := instrumentation.StartGoogleAPISpan(ctx, instrumentation.ServiceCalendar, instrumentation.OperationList,
		instrumentation.NewSpanAttributeBuilder().WithCalendar(calendarID).Build()...)
	defer span.End()

	start := time.Now()
	summaries, err := c.listEvents(ctx, calendarID, timeMin, timeMax, maxResults)
	c.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceCalendar, instrumentation.OperationList,
		instrumentation.StatusFromError(err), time.Since(start))
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return nil, err
	}

	instrumentation.SetSpanSuccess(span)
	return summaries, nil
}

func (c *Client) listEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time, maxResults int64) ([]EventSummary, error) {
	pageSize := int64(maxPageSize)
	if maxResults > 0 && maxResults < pageSize {
		pageSize = maxResults
	}

	call := c.svc.Events.List(calendarID).
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(pageSize)

	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	var summaries []EventSummary
	err := call.Pages(ctx, func(page *calendar.Events) error {
		for _, event := range page.Items {
			summaries = append(summaries, toEventSummary(event))
			if maxResults > 0 && int64(len(summaries)) >= maxResults {
				return errEnoughEvents
			}
		}
		// Pages does not wait between pages; throttle them like single calls.
		if page.NextPageToken != "" {
			return c.wait(ctx)
		}
		return nil
	})
	if err != nil && !errors.Is(err, errEnoughEvents) {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	return summaries, nil
}

// CreateEvent creates a new calendar event and notifies attendees according
// to input.SendUpdates.
func (c *Client) CreateEvent(ctx context.Context, calendarID string, input EventInput) (*EventSummary, error) {
	ctx, span := instrumentation.StartGoogleAPISpan(ctx, instrumentation.ServiceCalendar, instrumentation.OperationCreate,
		instrumentation.NewSpanAttributeBuilder().
			WithCalendar(calendarID).
			WithAttendeeCount(len(input.Attendees)).
			Build()...)
	defer span.End()

	start := time.Now()
	summary, err := c.createEvent(ctx, calendarID, input)
	c.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceCalendar, instrumentation.OperationCreate,
		instrumentation.StatusFromError(err), time.Since(start))
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return nil, err
	}

	instrumentation.SetSpanSuccess(span)
	return summary, nil
}

func (c *Client) createEvent(ctx context.Context, calendarID string, input EventInput) (*EventSummary, error) {
	if !input.End.After(input.Start) {
		return nil, fmt.Errorf("event end %s must be after start %s",
			input.End.Format(time.RFC3339), input.Start.Format(time.RFC3339))
	}
	if input.AddMeetLink && input.ConferenceRequestID == "" {
		input.ConferenceRequestID = uuid.NewString()
	}
	sendUpdates := input.SendUpdates
	if sendUpdates == "" {
		sendUpdates = "all"
	}

	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	call := c.svc.Events.Insert(calendarID, toEvent(input)).
		SendUpdates(sendUpdates).
		Context(ctx)
	if input.AddMeetLink {
		call = call.ConferenceDataVersion(1)
	}

	created, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	summary := toEventSummary(created)
	return &summary, nil
}

// wait blocks until the rate limiter admits one more call.
func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("calendar rate limit wait: %w", err)
	}
	return nil
}

package publisher

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"shuttle-service/internal/clearance"
	"shuttle-service/internal/service"
)

type NATSPublisher struct {
	nc      *nats.Conn
	prefix  string
	log     zerolog.Logger
	metrics PublisherMetrics
}

type PublisherMetrics interface {
	NATSPublishedInc()
	NATSPublishErrInc()
	PublishObserve(d time.Duration)
	NATSSetConnected(connected bool)
}

func NewNATSPublisher(url, prefix string, log zerolog.Logger, m PublisherMetrics) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("shuttle-service"),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if m != nil {
				m.NATSSetConnected(false)
			}
			log.Warn().Err(err).Msg("nats disconnected")
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(true)
			}
			log.Info().Msg("nats reconnected")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(false)
			}
			log.Info().Msg("nats closed")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	if m != nil {
		m.NATSSetConnected(true)
	}
	return &NATSPublisher{nc: nc, prefix: prefix, log: log, metrics: m}, nil
}

func (p *NATSPublisher) Close() {
	if p.nc != nil {
		_ = p.nc.Drain()
		p.nc.Close()
	}
}

// ClearanceMessage is the payload published after each refresh cycle.
type ClearanceMessage struct {
	Day         string             `json:"day"`
	Shift       clearance.Shift    `json:"shift"`
	GeneratedAt time.Time          `json:"generatedAt"`
	Worksites   []clearance.Result `json:"worksites"`
}

func NewClearanceMessage(board service.ClearanceBoard) ClearanceMessage {
	worksites := board.Worksites
	if worksites == nil {
		worksites = []clearance.Result{}
	}
	return ClearanceMessage{
		Day:         board.Day,
		Shift:       board.Shift,
		GeneratedAt: board.GeneratedAt,
		Worksites:   worksites,
	}
}

func (p *NATSPublisher) PublishClearance(shift clearance.Shift, board service.ClearanceBoard) error {
	subject := ClearanceSubject(p.prefix, shift)
	b, err := json.Marshal(NewClearanceMessage(board))
	if err != nil {
		return err
	}
	p.log.Debug().Str("subject", subject).Int("worksites", len(board.Worksites)).Msg("nats publish")

	start := time.Now()
	err = p.nc.Publish(subject, b)
	if p.metrics != nil {
		p.metrics.PublishObserve(time.Since(start))
		if err != nil {
			p.metrics.NATSPublishErrInc()
		} else {
			p.metrics.NATSPublishedInc()
		}
	}
	return err
}

// ClearanceSubject is <prefix>.clearance.<shift> with the shift lowercased.
func ClearanceSubject(prefix string, shift clearance.Shift) string {
	return fmt.Sprintf("%s.clearance.%s", subjectToken(prefix), subjectToken(strings.ToLower(string(shift))))
}

func subjectToken(s string) string {
	s = strings.TrimSpace(s)
	// NATS token cannot contain spaces, '>', '*', or trailing '.'
	repl := strings.NewReplacer(" ", "_", ".", "_", ">", "_", "*", "_", "/", "_", "\t", "_")
	s = repl.Replace(s)
	if s == "" {
		s = "_"
	}
	return s
}

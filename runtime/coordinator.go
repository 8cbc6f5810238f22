package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/domain/event"
	relayerrors "chat-relay/errors"
	"chat-relay/observability"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/abadojack/whatlanggo"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var _ contract.MessageHandler = (*Coordinator)(nil)

// Coordinator fans one inbound message out to every active participant,
// translating it at most once per distinct target language.
type Coordinator struct {
	log                *slog.Logger
	translator         contract.Translator
	transport          contract.Transport
	metrics            *observability.Metrics
	translationTimeout time.Duration
	maxConcurrency     int
}

func NewCoordinator(log *slog.Logger,
	translator contract.Translator, transport contract.Transport,
	metrics *observability.Metrics, translationTimeout time.Duration, maxConcurrency int) *Coordinator {
	return &Coordinator{
		log:                log,
		translator:         translator,
		transport:          transport,
		metrics:            metrics,
		translationTimeout: translationTimeout,
		maxConcurrency:     maxConcurrency,
	}
}

// Report summarises one fan-out.
type Report struct {
	MessageID           uuid.UUID
	Recipients          int
	Delivered           int
	Skipped             int
	TranslationCalls    int
	TranslationFailures int
}

type fanoutStats struct {
	delivered           atomic.Int64
	translationCalls    atomic.Int64
	translationFailures atomic.Int64
}

// translationCache maps a target language key to its translated text.
// It lives for a single Fanout call and is never shared between messages.
type translationCache struct {
	mu      sync.Mutex
	entries map[string]string
}

func newTranslationCache(senderKey, original string) *translationCache {
	return &translationCache{entries: map[string]string{senderKey: original}}
}

func (c *translationCache) get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	text, ok := c.entries[key]
	return text, ok
}

func (c *translationCache) set(key, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = text
}

// Fanout delivers msg to the recipients snapshotted when it was received.
// Participants joining or leaving afterwards do not change that set.
// The sender must be active, otherwise ErrInactiveSender is returned and
// nothing is delivered. It returns once every recipient has been served.
func (c *Coordinator) Fanout(ctx context.Context, msg domain.Message) (Report, error) {
	start := time.Now()
	report := Report{MessageID: msg.ID}

	sender := msg.Sender
	if !sender.IsActive() {
		c.metrics.IncMessage(observability.OutcomeDroppedInactive)
		c.log.Debug("Message dropped, sender is not active", "sender_id", sender.ID)
		return report, fmt.Errorf("%w: %s", relayerrors.ErrInactiveSender, sender.ID)
	}
	if _, err := sender.Language.Tag(); err != nil {
		c.metrics.IncMessage(observability.OutcomeDroppedMalformed)
		c.log.Warn("Message dropped, sender language is malformed", "sender_id", sender.ID, "error", err)
		return report, err
	}
	c.checkDeclaredLanguage(msg, sender)

	report.Recipients = len(msg.Recipients)
	keys, groups, skipped := groupByLanguage(msg.Recipients)
	report.Skipped = skipped
	if skipped > 0 {
		for range skipped {
			c.metrics.IncDelivery(observability.ResultSkipped)
		}
		c.log.Warn("Recipients skipped, language is malformed", "message_id", msg.ID, "count", skipped)
	}

	cache := newTranslationCache(sender.Language.Key, msg.Content)
	stats := &fanoutStats{}

	var g errgroup.Group
	if c.maxConcurrency > 0 {
		g.SetLimit(c.maxConcurrency)
	}
	for _, key := range keys {
		g.Go(func() error {
			c.serveLanguage(ctx, msg, sender, key, groups[key], cache, stats)
			return nil
		})
	}
	_ = g.Wait()

	report.Delivered = int(stats.delivered.Load())
	report.TranslationCalls = int(stats.translationCalls.Load())
	report.TranslationFailures = int(stats.translationFailures.Load())

	c.metrics.IncMessage(observability.OutcomeFannedOut)
	c.metrics.ObserveFanout(start)
	c.log.Debug("Message fanned out",
		"message_id", msg.ID,
		"recipients", report.Recipients,
		"delivered", report.Delivered,
		"translation_calls", report.TranslationCalls,
		"translation_failures", report.TranslationFailures)
	return report, nil
}

// serveLanguage serves the recipients sharing one language key in snapshot order,
// so a successful translation is reused by every following recipient.
func (c *Coordinator) serveLanguage(ctx context.Context, msg domain.Message, sender domain.Participant,
	key string, recipients []domain.Participant, cache *translationCache, stats *fanoutStats) {
	for _, recipient := range recipients {
		text := c.textFor(ctx, msg, sender, key, cache, stats)
		evt := event.GotMessage{
			Text:           text,
			Original:       msg.Content,
			AuthorName:     sender.DisplayName(),
			AuthorLanguage: *sender.Language,
			Time:           msg.CreatedAt.UnixMilli(),
		}
		if err := c.transport.Send(ctx, recipient.ID, evt); err != nil {
			c.metrics.IncDelivery(observability.ResultFailure)
			c.log.Warn("Delivery failed",
				"message_id", msg.ID,
				"recipient_id", recipient.ID,
				"error", err)
			continue
		}
		stats.delivered.Add(1)
		c.metrics.IncDelivery(observability.ResultSuccess)
	}
}

// textFor returns the cached text for key, or asks the translator.
// A failure is not cached: the next recipient of the same key tries again.
func (c *Coordinator) textFor(ctx context.Context, msg domain.Message, sender domain.Participant,
	key string, cache *translationCache, stats *fanoutStats) string {
	if text, ok := cache.get(key); ok {
		c.metrics.IncTranslation(observability.ResultCached)
		return text
	}

	stats.translationCalls.Add(1)
	translated, err := c.translate(ctx, msg.Content, sender.Language.Key, key)
	if err != nil {
		stats.translationFailures.Add(1)
		c.metrics.IncTranslation(observability.ResultFailure)
		c.log.Error("Translation failed",
			"message_id", msg.ID,
			"source", sender.Language.Key,
			"target", key,
			"error", err)
		return domain.TranslationErrorText
	}
	c.metrics.IncTranslation(observability.ResultSuccess)
	cache.set(key, translated)
	return translated
}

// translate bounds one provider call by the translation timeout.
// An empty result is the same failure as a provider error.
func (c *Coordinator) translate(ctx context.Context, text, source, target string) (string, error) {
	if c.translationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.translationTimeout)
		defer cancel()
	}

	start := time.Now()
	translated, err := c.translator.Translate(ctx, text, source, target)
	c.metrics.ObserveTranslation(start)
	if err != nil {
		if errors.Is(err, relayerrors.ErrTranslationUnavailable) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", relayerrors.ErrTranslationUnavailable, err)
	}
	if translated == "" {
		return "", fmt.Errorf("%w: empty response", relayerrors.ErrTranslationUnavailable)
	}
	return translated, nil
}

// checkDeclaredLanguage counts messages whose detected language differs from
// the sender's declared one. The declared language still drives translation.
func (c *Coordinator) checkDeclaredLanguage(msg domain.Message, sender domain.Participant) {
	info := whatlanggo.Detect(msg.Content)
	if !info.IsReliable() {
		return
	}
	detected := info.Lang.Iso6391()
	if detected != "" && detected != sender.Language.Base() {
		c.metrics.IncLanguageMismatch()
		c.log.Debug("Declared language differs from detected one",
			"message_id", msg.ID,
			"declared", sender.Language.Key,
			"detected", detected)
	}
}

// groupByLanguage buckets recipients per language key, keeping the order
// in which keys first appear. Recipients with a malformed language are counted
// as skipped.
func groupByLanguage(recipients []domain.Participant) ([]string, map[string][]domain.Participant, int) {
	var keys []string
	groups := make(map[string][]domain.Participant)
	skipped := 0
	for _, r := range recipients {
		if r.Language == nil || !r.Language.Valid() {
			skipped++
			continue
		}
		key := r.Language.Key
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], r)
	}
	return keys, groups, skipped
}

// Handle implements contract.MessageHandler for the message workers.
func (c *Coordinator) Handle(ctx context.Context, msg domain.Message) error {
	_, err := c.Fanout(ctx, msg)
	return err
}

// Package estimator wires retrieval, prompting, extraction and pricing into
// the analyze and chat entry points.
package estimator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/junlennon0516/DongSeo-WebProject/internal/domain"
	"github.com/junlennon0516/DongSeo-WebProject/internal/metrics"
	"github.com/junlennon0516/DongSeo-WebProject/internal/ports"
	"github.com/junlennon0516/DongSeo-WebProject/internal/services/extraction"
	"github.com/junlennon0516/DongSeo-WebProject/internal/services/prompt"
	"github.com/junlennon0516/DongSeo-WebProject/internal/services/retrieval"
)

const (
	DefaultExtractionTimeout = 30 * time.Second
	DefaultChatTemperature   = float32(0.7)

	chatSystemPrompt = "You are an estimating assistant for a door and window supplier. " +
		"Answer in the customer's language. Quote only the prices given in the current estimate."
)

var (
	ErrEmptyText         = eris.New("text is required")
	ErrEmptyConversation = eris.New("messages are required")
)

type candidateSource interface {
	Candidates(ctx context.Context, text string) retrieval.Candidates
}

type orderPricer interface {
	Resolve(ctx context.Context, order domain.Order) domain.Order
}

type Options struct {
	Model             string
	ExtractionTimeout time.Duration
	Metrics           *metrics.Registry
}

type Service struct {
	catalog candidateSource
	gen     ports.Generator
	pricer  orderPricer
	log     *zap.Logger
	model   string
	timeout time.Duration
	metrics *metrics.Registry
}

var _ ports.Estimator = (*Service)(nil)

func New(catalog candidateSource, gen ports.Generator, pricer orderPricer, log *zap.Logger, opts Options) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	timeout := opts.ExtractionTimeout
	if timeout <= 0 {
		timeout = DefaultExtractionTimeout
	}
	return &Service{
		catalog: catalog,
		gen:     gen,
		pricer:  pricer,
		log:     log,
		model:   opts.Model,
		timeout: timeout,
		metrics: opts.Metrics,
	}
}

// Analyze extracts an order from free text and prices it. Only extraction
// errors are returned; retrieval and pricing degrade instead of failing.
func (s *Service) Analyze(ctx context.Context, text string) (order domain.Order, err error) {
	start := time.Now()
	log := s.log.With(zap.String("request_id", uuid.NewString()))
	defer func() {
		s.metrics.ObserveAnalyze(outcome(err), time.Since(start).Seconds())
	}()

	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Order{}, ErrEmptyText
	}

	cands := s.catalog.Candidates(ctx, text)
	if cands.Degraded {
		s.metrics.ObserveRetrievalDegraded()
	}

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	raw, err := s.gen.Generate(genCtx, ports.GenerateRequest{
		Model:    s.model,
		Messages: []domain.ChatMessage{{Role: domain.RoleUser, Content: prompt.Build(cands.Text, text)}},
	})
	cancel()
	if err != nil {
		log.Error("extraction call failed", zap.Error(err))
		return domain.Order{}, extraction.Failed(err)
	}

	// Without a healthy store there is nothing authoritative to check against.
	var allowed map[int64]struct{}
	if !cands.Degraded {
		allowed = cands.IDs()
	}
	parsed, err := extraction.Parse(raw, allowed)
	if err != nil {
		log.Warn("extraction output rejected", zap.Error(err))
		return domain.Order{}, err
	}

	order = s.pricer.Resolve(ctx, parsed)
	log.Info("analyze complete",
		zap.Int("candidates", len(cands.Entries)),
		zap.Bool("retrieval_degraded", cands.Degraded),
		zap.Int("items", len(order.Items)),
		zap.Int64("total_amount", order.TotalAmount),
		zap.Duration("elapsed", time.Since(start)))
	return order, nil
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	var xerr *extraction.Error
	if errors.As(err, &xerr) {
		return string(xerr.Kind)
	}
	return "invalid_request"
}

// Chat forwards the conversation to the generator. The system turn carries
// a summary of the estimate under discussion when one is supplied.
func (s *Service) Chat(ctx context.Context, req ports.ChatRequest) (domain.ChatMessage, error) {
	if len(req.Messages) == 0 {
		return domain.ChatMessage{}, ErrEmptyConversation
	}
	system := chatSystemPrompt
	if req.EstimateData != nil {
		system += "\n\n" + Summarize(*req.EstimateData)
	}
	temp := DefaultChatTemperature
	if req.Temperature != nil {
		temp = *req.Temperature
	}
	model := req.Model
	if model == "" {
		model = s.model
	}

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	reply, err := s.gen.Generate(genCtx, ports.GenerateRequest{
		Model:       model,
		System:      system,
		Messages:    req.Messages,
		Temperature: temp,
	})
	if err != nil {
		s.log.Error("chat call failed", zap.Error(err), zap.Int("turns", len(req.Messages)))
		return domain.ChatMessage{}, extraction.Failed(err)
	}
	return domain.ChatMessage{Role: domain.RoleAssistant, Content: strings.TrimSpace(reply)}, nil
}

// Summarize renders an order as plain text for the chat system turn.
func Summarize(o domain.Order) string {
	if len(o.Items) == 0 {
		return "Current estimate: no items."
	}
	var b strings.Builder
	b.WriteString("Current estimate:\n")
	for i, it := range o.Items {
		name := it.ProductName
		if name == "" {
			name = fmt.Sprintf("product %d", it.ProductID)
		}
		fmt.Fprintf(&b, "%d. %s", i+1, name)
		if it.HasSize() {
			fmt.Fprintf(&b, " %dx%dmm", it.Width, it.Height)
		}
		fmt.Fprintf(&b, " x%d, unit %d, total %d\n", it.Quantity, it.UnitPrice, it.TotalPrice)
	}
	fmt.Fprintf(&b, "Total amount: %d", o.TotalAmount)
	return b.String()
}

package service

import (
	"sync"

	"go.uber.org/zap"

	"docqa/internal/domain"
)

// DefaultOverviewSentences is how many sentences the load overview keeps.
const DefaultOverviewSentences = 3

// QAService holds the active document and answers questions about it.
// Each question sees one consistent document snapshot.
type QAService struct {
	loader     domain.Loader
	answerer   domain.Answerer
	summarizer domain.Summarizer
	logger     *zap.Logger

	mu       sync.RWMutex
	doc      domain.Document
	overview string
	loaded   bool
}

func NewQAService(loader domain.Loader, answerer domain.Answerer, summarizer domain.Summarizer, logger *zap.Logger) *QAService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QAService{loader: loader, answerer: answerer, summarizer: summarizer, logger: logger}
}

// Load replaces the active document. On error the previous document stays active.
func (s *QAService) Load(path string) (domain.Document, error) {
	doc, err := s.loader.Load(path)
	if err != nil {
		return domain.Document{}, err
	}
	overview, err := s.summarizer.Summarize(doc.Content, DefaultOverviewSentences)
	if err != nil {
		s.logger.Warn("overview failed", zap.String("document", doc.Name), zap.Error(err))
		overview = ""
	}

	s.mu.Lock()
	s.doc, s.overview, s.loaded = doc, overview, true
	s.mu.Unlock()

	s.logger.Info("document loaded",
		zap.String("id", doc.ID),
		zap.String("document", doc.Name),
		zap.String("format", doc.Format),
		zap.Int("pages", doc.TotalPages),
		zap.Int("chars", len(doc.Content)),
	)
	return doc, nil
}

// Ask answers question against the active document. Without one, the
// answer is the no-content fallback.
func (s *QAService) Ask(question string) domain.Answer {
	s.mu.RLock()
	doc := s.doc
	s.mu.RUnlock()
	return s.answerer.Answer(question, doc)
}

func (s *QAService) Document() (domain.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc, s.loaded
}

func (s *QAService) Overview() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.overview
}

package agent

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	conversationRepo "calbot/database/repository/conversation"
	"calbot/models"
	ai "calbot/services/intelligence"
)

// Pipeline states. Each state carries only the fields valid at that point,
// and each edge is one transition method; a failed transition moves the run
// into the terminal failure result instead of threading an error flag
// through every step.
type (
	stateInit struct {
		message string
	}
	stateIntentClassified struct {
		message string
		intent  models.Intent
	}
	stateEntitiesExtracted struct {
		message  string
		intent   models.Intent
		entities models.EntityBag
	}
	stateActionExecuted struct {
		message  string
		intent   models.Intent
		entities models.EntityBag
		outcome  string
	}
)

// Orchestrator sequences one pipeline run: classify intent, extract
// entities, execute the calendar action, phrase the reply. History and
// Archive are optional collaborators; a nil value disables them.
type Orchestrator struct {
	LLM        ai.LanguageService
	Extractor  *Extractor
	Dispatcher *Dispatcher
	History    *ai.RedisHistoryStore
	Archive    conversationRepo.Repository
	Logger     *zap.Logger
}

// Process runs the state machine for one message. Runs share no mutable
// state; concurrent calls are independent.
func (o *Orchestrator) Process(ctx context.Context, userID, message string) models.PipelineResult {
	init := stateInit{message: message}

	classified, err := o.classifyIntent(ctx, init)
	if err != nil {
		o.Logger.Error("Intent classification failed", zap.Error(err))
		return models.PipelineResult{Err: &models.PipelineError{
			Stage:   "classify_intent",
			Message: "I was unable to understand your request",
		}}
	}

	extracted := o.extractEntities(ctx, classified)

	executed, err := o.executeAction(ctx, extracted)
	if err != nil {
		o.Logger.Error("Calendar action failed",
			zap.String("intent", string(extracted.intent)), zap.Error(err))
		return models.PipelineResult{Err: &models.PipelineError{
			Stage:   "execute_action",
			Message: "the calendar operation could not be completed",
		}}
	}

	response := o.phraseResponse(ctx, userID, executed)

	result := models.PipelineResult{
		Response: response,
		Intent:   executed.intent,
		Entities: &executed.entities,
	}
	o.remember(ctx, userID, message, result)
	return result
}

// classifyIntent invokes the language service; any collaborator failure is
// fatal to the run. Unrecognized classifier output maps to general_query and
// is never an error.
func (o *Orchestrator) classifyIntent(ctx context.Context, st stateInit) (stateIntentClassified, error) {
	raw, err := o.LLM.Classify(ctx, st.message)
	if err != nil {
		return stateIntentClassified{}, err
	}
	intent := models.ParseIntent(raw)
	o.Logger.Info("Detected intent", zap.String("intent", string(intent)))
	return stateIntentClassified{message: st.message, intent: intent}, nil
}

// extractEntities cannot fail: a language-service error or malformed JSON
// degrades to the regex fallback, which is total.
func (o *Orchestrator) extractEntities(ctx context.Context, st stateIntentClassified) stateEntitiesExtracted {
	structured, err := o.LLM.ExtractEntities(ctx, st.message, st.intent)
	if err != nil {
		o.Logger.Warn("Entity extraction call failed, falling back to regex extraction", zap.Error(err))
		structured = ""
	}
	entities := o.Extractor.Extract(st.message, st.intent, structured)
	return stateEntitiesExtracted{message: st.message, intent: st.intent, entities: entities}
}

func (o *Orchestrator) executeAction(ctx context.Context, st stateEntitiesExtracted) (stateActionExecuted, error) {
	outcome, err := o.Dispatcher.Dispatch(ctx, st.intent, st.entities)
	if err != nil {
		return stateActionExecuted{}, err
	}
	return stateActionExecuted{message: st.message, intent: st.intent, entities: st.entities, outcome: outcome}, nil
}

// phraseResponse asks the language service to phrase the outcome as prose;
// on failure the raw outcome text is returned verbatim rather than failing
// the run.
func (o *Orchestrator) phraseResponse(ctx context.Context, userID string, st stateActionExecuted) string {
	req := ai.PhraseRequest{Message: st.message, Intent: st.intent, Outcome: st.outcome}
	if o.History != nil && userID != "" {
		history, err := o.History.Get(ctx, userID)
		if err != nil {
			o.Logger.Warn("Failed to load conversation history", zap.Error(err))
		} else {
			req.History = history
		}
	}

	response, err := o.LLM.Phrase(ctx, req)
	if err != nil || response == "" {
		o.Logger.Warn("Response phrasing failed, returning tool outcome verbatim", zap.Error(err))
		return st.outcome
	}
	return response
}

// remember persists the exchange to the optional history cache and archive.
// Both are best effort; failures are logged, never surfaced.
func (o *Orchestrator) remember(ctx context.Context, userID, message string, result models.PipelineResult) {
	if o.History != nil && userID != "" {
		ex := models.Exchange{User: message, Agent: result.Response, At: time.Now()}
		if err := o.History.Append(ctx, userID, ex); err != nil {
			o.Logger.Warn("Failed to append conversation history", zap.Error(err))
		}
	}
	if o.Archive != nil {
		record := models.ConversationRecord{
			ID:       uuid.New().String(),
			UserID:   userID,
			Message:  message,
			Response: result.Response,
			Intent:   result.Intent,
			Entities: result.Entities,
		}
		if _, err := o.Archive.Create(ctx, record); err != nil {
			o.Logger.Warn("Failed to archive conversation", zap.Error(err))
		}
	}
}

package generation

// Generation progress stages, emitted in order during one run.
const (
	StageInitializing       = "initializing"
	StageTemplatesLoaded    = "templates_loaded"
	StageAIContentGenerated = "ai_content_generated"
	StageTemplatesCompiled  = "templates_compiled"
	StageComplete           = "complete"
	StageError              = "error"
)

// stagePercent maps each stage to its fixed completion percentage.
var stagePercent = map[string]int{
	StageInitializing:       10,
	StageTemplatesLoaded:    20,
	StageAIContentGenerated: 70,
	StageTemplatesCompiled:  85,
	StageComplete:           100,
}

// ProgressEvent is one status update during generation.
type ProgressEvent struct {
	Stage    string `json:"stage"`
	Progress int    `json:"progress"`
	Message  string `json:"message"`
	Error    string `json:"error,omitempty"`
}

// ProgressFunc receives progress events. A nil ProgressFunc disables
// reporting.
type ProgressFunc func(ProgressEvent)

func (f ProgressFunc) emit(stage, message string) {
	if f == nil {
		return
	}
	f(ProgressEvent{Stage: stage, Progress: stagePercent[stage], Message: message})
}

func (f ProgressFunc) emitError(err error) {
	if f == nil {
		return
	}
	f(ProgressEvent{Stage: StageError, Message: "generation failed", Error: err.Error()})
}

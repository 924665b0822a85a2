package query

import (
	"context"
	"fmt"
	"strings"
	"time"

	"docindex/config"
	"docindex/internal/core/llm"
	"docindex/internal/core/retriever"
	"docindex/internal/database"
	"docindex/internal/database/model"
	"docindex/pkg/logger"
)

// NoEvidenceAnswer is returned without calling the model when retrieval
// produced no context.
const NoEvidenceAnswer = "Not enough evidence in the indexed documents to answer."

// Run executes the query flow: embed -> search -> prompt -> LLM -> persist.
func Run(ctx context.Context, req Request) (Response, error) {
	if req.TopK <= 0 || req.TopK > 64 {
		req.TopK = 12
	}
	// Embed
	embedCtx, cancelEmbed := context.WithTimeout(ctx, 3*time.Second)
	defer cancelEmbed()
	vec, err := retriever.EmbedQuestion(embedCtx, strings.TrimSpace(req.Question))
	if err != nil {
		logger.Error(err, "%v: embed question failed", config.ModuleQuery)
		return Response{}, err
	}
	// Search
	searchCtx, cancelSearch := context.WithTimeout(ctx, 1*time.Second)
	defer cancelSearch()
	hits, err := retriever.SearchMilvus(searchCtx, vec, req.TopK, retriever.Filters{DocIDs: req.DocIDs})
	if err != nil {
		logger.Error(err, "%v: search milvus failed", config.ModuleQuery)
		return Response{}, err
	}
	// Build contexts
	ctxs := make([]ContextSnippet, 0, len(hits))
	for _, h := range hits {
		ctxs = append(ctxs, ContextSnippet{
			DocID:   h.DocID,
			Page:    h.PageIndex,
			Snippet: h.Content,
		})
	}
	// Guard hallucination
	if len(ctxs) == 0 {
		if err := persistMessages(req.Question, NoEvidenceAnswer, nil); err != nil {
			logger.Error(err, "%v: persist messages failed", config.ModuleQuery)
		}
		return Response{Answer: NoEvidenceAnswer, Contexts: []ContextSnippet{}}, nil
	}
	// Prompt + LLM
	sysMsg, userMsg := buildPrompt(req.Question, ctxs)
	llmCtx, cancelLLM := context.WithTimeout(ctx, 30*time.Second)
	defer cancelLLM()
	answer, err := llm.Complete(llmCtx, sysMsg, userMsg)
	if err != nil {
		logger.Error(err, "%v: call llm failed", config.ModuleQuery)
		return Response{}, err
	}
	// Persist
	if err := persistMessages(req.Question, answer, ctxs); err != nil {
		logger.Error(err, "%v: persist messages failed", config.ModuleQuery)
	}
	return Response{Answer: answer, Contexts: ctxs}, nil
}

func buildPrompt(question string, ctxs []ContextSnippet) (systemMsg, userMsg string) {
	var b strings.Builder
	b.WriteString("You are a documentation assistant. Answer concisely, using only the context snippets below. ")
	b.WriteString(fmt.Sprintf("Snippets tagged with an image name describe figures from the documents. If the snippets are not sufficient, reply exactly: %q.\n\n", NoEvidenceAnswer))
	b.WriteString("Contexts:\n")
	for i, c := range ctxs {
		b.WriteString(fmt.Sprintf("[%d] (doc_id=%d, page=%d): %s\n\n", i+1, c.DocID, c.Page, sanitize(c.Snippet)))
	}
	systemMsg = b.String()
	userMsg = fmt.Sprintf("Question: %s\nAnswer briefly; quote short passages from the contexts where useful.", question)
	return
}

func sanitize(s string) string {
	out := strings.ReplaceAll(s, "\x00", "")
	return strings.TrimSpace(out)
}

func persistMessages(question string, answer string, ctxs []ContextSnippet) error {
	db, err := database.GetDB()
	if err != nil {
		return err
	}
	userID, err := database.EnsureDefaultUser(db)
	if err != nil {
		return err
	}
	ctx := context.Background()
	now := time.Now()
	msgUser := model.Message{
		UserID:    userID,
		Role:      "user",
		Content:   question,
		CreatedAt: &now,
	}
	if err := database.CreateEntity(ctx, &msgUser); err != nil {
		return err
	}
	msgAssistant := model.Message{
		UserID:    userID,
		Role:      "assistant",
		Content:   answer,
		CreatedAt: &now,
	}
	if err := database.CreateEntity(ctx, &msgAssistant); err != nil {
		return err
	}
	for _, cs := range ctxs {
		docID := cs.DocID
		msgCtx := model.Message{
			UserID:     userID,
			Role:       "context",
			Content:    cs.Snippet,
			DocumentID: &docID,
			CreatedAt:  &now,
		}
		if err := database.CreateEntity(ctx, &msgCtx); err != nil {
			return err
		}
	}
	return nil
}

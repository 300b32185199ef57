package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"hiringdesk/core/logger"
	"hiringdesk/core/tasks"
	"hiringdesk/externals/storage"
	candidaterepo "hiringdesk/modules/candidate/repository"
	"hiringdesk/modules/feedback/entity"
	"hiringdesk/modules/feedback/repository"
	interviewrepo "hiringdesk/modules/interview/repository"
	userrepo "hiringdesk/modules/user/repository"

	"github.com/go-pdf/fpdf"
	"github.com/hibiken/asynq"
)

// PDFHandler renders submitted feedback as a PDF report and uploads it.
type PDFHandler struct {
	feedbacks  repository.FeedbackRepositoryInterface
	interviews interviewrepo.InterviewRepositoryInterface
	candidates candidaterepo.CandidateRepositoryInterface
	users      userrepo.UserRepositoryInterface
	uploader   storage.UploaderInterface
}

func NewPDFHandler(
	feedbacks repository.FeedbackRepositoryInterface,
	interviews interviewrepo.InterviewRepositoryInterface,
	candidates candidaterepo.CandidateRepositoryInterface,
	users userrepo.UserRepositoryInterface,
	uploader storage.UploaderInterface,
) *PDFHandler {
	return &PDFHandler{
		feedbacks:  feedbacks,
		interviews: interviews,
		candidates: candidates,
		users:      users,
		uploader:   uploader,
	}
}

// Register binds the PDF task type onto the worker mux.
func (h *PDFHandler) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(tasks.TypeGenerateFeedbackPDF, h.ProcessGeneratePDF)
}

// ProcessGeneratePDF builds and uploads the report. Idempotent: a feedback
// row that already has a PDF key is skipped, so queue retries are safe.
func (h *PDFHandler) ProcessGeneratePDF(ctx context.Context, t *asynq.Task) error {
	var payload tasks.GenerateFeedbackPDFPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal pdf payload: %w", err)
	}

	feedback, err := h.feedbacks.GetByInterview(ctx, payload.InterviewID)
	if err != nil {
		return fmt.Errorf("load feedback for %s: %w", payload.InterviewID, err)
	}
	if feedback == nil || feedback.SubmittedAt == nil {
		logger.Error("PDFHandler:ProcessGeneratePDF:NotSubmitted", "interview_id", payload.InterviewID)
		return nil
	}
	if feedback.PDFKey != nil {
		return nil
	}

	interview, err := h.interviews.GetByID(ctx, payload.InterviewID)
	if err != nil || interview == nil {
		return fmt.Errorf("load interview %s: %w", payload.InterviewID, err)
	}
	candidate, err := h.candidates.GetByID(ctx, interview.CandidateID)
	if err != nil || candidate == nil {
		return fmt.Errorf("load candidate %s: %w", interview.CandidateID, err)
	}

	interviewerName := ""
	if interviewer, lookupErr := h.users.GetByID(ctx, interview.InterviewerID); lookupErr == nil && interviewer != nil {
		interviewerName = interviewer.Name
	}

	content, err := h.render(candidate.Name, interviewerName, interview.ScheduledTime, feedback)
	if err != nil {
		return fmt.Errorf("render pdf for %s: %w", payload.InterviewID, err)
	}

	key, err := h.uploader.UploadFeedbackPDF(ctx, candidate.Name, payload.InterviewID.String(), content)
	if err != nil {
		return fmt.Errorf("upload pdf for %s: %w", payload.InterviewID, err)
	}

	if err := h.feedbacks.SetPDFKey(ctx, payload.InterviewID, key); err != nil {
		return fmt.Errorf("store pdf key for %s: %w", payload.InterviewID, err)
	}

	logger.Info("PDFHandler:ProcessGeneratePDF:Done", "interview_id", payload.InterviewID, "key", key)
	return nil
}

func (h *PDFHandler) render(candidateName, interviewerName string, scheduledTime time.Time, feedback *entity.InterviewFeedback) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Interview Feedback Report")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 11)
	h.field(pdf, "Candidate", candidateName)
	if interviewerName != "" {
		h.field(pdf, "Interviewer", interviewerName)
	}
	h.field(pdf, "Interview Date", scheduledTime.Format("02 Jan 2006 15:04 MST"))
	if feedback.OverallRemark != nil {
		h.field(pdf, "Overall Remark", string(*feedback.OverallRemark))
	}
	if feedback.OverallScore != nil {
		h.field(pdf, "Overall Score", strconv.Itoa(*feedback.OverallScore))
	}
	pdf.Ln(4)

	h.section(pdf, "Skill Evaluation", feedback.SkillEvaluation)
	h.section(pdf, "Strengths", feedback.Strength)
	h.section(pdf, "Improvement Points", feedback.ImprovementPoints)
	if feedback.RecordingLink != nil {
		h.section(pdf, "Recording", feedback.RecordingLink)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (h *PDFHandler) field(pdf *fpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(45, 7, label)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, value)
	pdf.Ln(7)
}

func (h *PDFHandler) section(pdf *fpdf.Fpdf, title string, body *string) {
	if body == nil || *body == "" {
		return
	}
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, *body, "", "L", false)
}

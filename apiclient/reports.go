package apiclient

import (
	"context"
	"net/http"

	"github.com/jrsteele09/dailymood/dailymodel"
	apperrors "github.com/jrsteele09/dailymood/internal/errors"
)

func (c *Client) SubmitReport(ctx context.Context, answers dailymodel.DailyAnswers) (*dailymodel.Report, error) {
	var report dailymodel.Report
	if err := c.do(ctx, http.MethodPost, RouteSubmitReport, dailymodel.SubmitReportRequest{Answers: answers}, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// GetTodayReport returns nil without an error when no report exists yet.
func (c *Client) GetTodayReport(ctx context.Context) (*dailymodel.Report, error) {
	var report dailymodel.Report
	err := c.do(ctx, http.MethodGet, RouteGetTodayReport, nil, &report)
	if apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// RequestAdvice asks the given advisor to evaluate today's answers.
func (c *Client) RequestAdvice(ctx context.Context, advisor int) (*dailymodel.AdviceResponse, error) {
	if _, ok := dailymodel.AdvisorByID(advisor); !ok {
		return nil, apperrors.Wrapf(apperrors.ErrUnknownAdvisor, "[Client.RequestAdvice] advisor %d", advisor)
	}
	var resp dailymodel.AdviceResponse
	if err := c.do(ctx, http.MethodPost, RouteCreateAdvice, dailymodel.AdviceRequest{Advisor: advisor}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

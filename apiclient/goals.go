package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/jrsteele09/dailymood/dailymodel"
	"github.com/pkg/errors"
)

func (c *Client) GetObjectives(ctx context.Context) ([]dailymodel.Objective, error) {
	var objectives []dailymodel.Objective
	if err := c.do(ctx, http.MethodGet, RouteGetGoals, nil, &objectives); err != nil {
		return nil, err
	}
	return objectives, nil
}

func (c *Client) CreateObjective(ctx context.Context, title string) (*dailymodel.Objective, error) {
	body := dailymodel.ObjectiveRequest{Objective: dailymodel.Objective{Title: title}}
	var envelope dailymodel.GoalEnvelope
	if err := c.do(ctx, http.MethodPost, RouteAddGoal, body, &envelope); err != nil {
		return nil, err
	}
	if envelope.Goal == nil {
		return nil, errors.New("[Client.CreateObjective] no goal in response")
	}
	return envelope.Goal, nil
}

// UpdateObjective sends objective as the new state of id and returns the
// server representation, which is either the bare objective or wrapped in
// {message, goal}.
func (c *Client) UpdateObjective(ctx context.Context, id string, objective dailymodel.Objective) (*dailymodel.Objective, error) {
	objective.ID = ""
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, RouteUpdateGoal+url.PathEscape(id), dailymodel.ObjectiveRequest{Objective: objective}, &raw); err != nil {
		return nil, err
	}
	return decodeUpdatedObjective(raw, id)
}

func decodeUpdatedObjective(raw json.RawMessage, id string) (*dailymodel.Objective, error) {
	var envelope dailymodel.GoalEnvelope
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Goal != nil {
		return fillID(envelope.Goal, id), nil
	}
	var objective dailymodel.Objective
	if err := json.Unmarshal(raw, &objective); err != nil {
		return nil, errors.Wrap(err, "[Client.UpdateObjective] decode response")
	}
	if objective.Title == "" && objective.ID == "" {
		return nil, errors.New("[Client.UpdateObjective] empty goal in response")
	}
	return fillID(&objective, id), nil
}

func fillID(objective *dailymodel.Objective, id string) *dailymodel.Objective {
	if objective.ID == "" {
		objective.ID = id
	}
	return objective
}

func (c *Client) DeleteObjective(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, RouteDeleteGoal+url.PathEscape(id), nil, nil)
}

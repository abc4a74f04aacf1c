package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskLeadsRescore = "leads.rescore"

const TaskDealsHealthRefresh = "deals.health.refresh"

const TaskSuppliersRescore = "suppliers.rescore"

// RescorePayload identifies the tenant whose entities get rescored.
type RescorePayload struct {
	TenantID string `json:"tenantId"`
}

func NewLeadsRescoreTask(payload RescorePayload) (*asynq.Task, error) {
	return newRescoreTask(TaskLeadsRescore, payload)
}

func NewDealsHealthRefreshTask(payload RescorePayload) (*asynq.Task, error) {
	return newRescoreTask(TaskDealsHealthRefresh, payload)
}

func NewSuppliersRescoreTask(payload RescorePayload) (*asynq.Task, error) {
	return newRescoreTask(TaskSuppliersRescore, payload)
}

func newRescoreTask(kind string, payload RescorePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(kind, data), nil
}

func ParseRescorePayload(task *asynq.Task) (RescorePayload, error) {
	var payload RescorePayload
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}

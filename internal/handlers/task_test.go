package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/smartsprint-dev/smartsprint/db"
	"github.com/smartsprint-dev/smartsprint/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTask(t *testing.T) {
	env := setupTestEnv(t)
	project := env.createProject(t, "Apollo")

	w := env.request(t, http.MethodPost, "/api/tasks", gin.H{
		"project_id": project.ID,
		"title":      "Wire telemetry",
	}, &env.pm)
	require.Equal(t, http.StatusCreated, w.Code)

	var task models.Task
	decodeBody(t, w, &task)
	assert.Equal(t, "Created", task.Status)
	assert.Nil(t, task.AssignedTo)

	// Missing project or title is a validation error.
	w = env.request(t, http.MethodPost, "/api/tasks", gin.H{"title": "Orphan"}, &env.pm)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown project and assignee are reported as not found.
	w = env.request(t, http.MethodPost, "/api/tasks", gin.H{
		"project_id": 9999,
		"title":      "Ghost",
	}, &env.pm)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.request(t, http.MethodPost, "/api/tasks", gin.H{
		"project_id":  project.ID,
		"title":       "Ghost assignee",
		"assigned_to": 9999,
	}, &env.pm)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Developers cannot create tasks.
	w = env.request(t, http.MethodPost, "/api/tasks", gin.H{
		"project_id": project.ID,
		"title":      "Rogue",
	}, &env.dev)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

// A developer may move their own task through statuses, but only once it is
// actually assigned to them, and never touch other fields.
func TestAssigneeStatusUpdates(t *testing.T) {
	env := setupTestEnv(t)
	project := env.createProject(t, "Apollo")
	task := env.createTask(t, project.ID, "Wire telemetry", nil)

	// Unassigned: the developer has no claim on the task.
	w := env.request(t, http.MethodPut, fmt.Sprintf("/api/tasks/%d", task.ID), gin.H{
		"status": "In Progress",
	}, &env.dev)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// A manager assigns the task to the developer.
	w = env.request(t, http.MethodPut, fmt.Sprintf("/api/tasks/%d", task.ID), gin.H{
		"assigned_to": env.dev.ID,
		"status":      "Assigned",
	}, &env.pm)
	require.Equal(t, http.StatusOK, w.Code)

	// Now the status-only update goes through.
	w = env.request(t, http.MethodPut, fmt.Sprintf("/api/tasks/%d", task.ID), gin.H{
		"status": "In Progress",
	}, &env.dev)
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Task
	decodeBody(t, w, &updated)
	assert.Equal(t, "In Progress", updated.Status)
	assert.Equal(t, "Wire telemetry", updated.Title)
	require.NotNil(t, updated.AssignedTo)
	assert.Equal(t, env.dev.ID, *updated.AssignedTo)

	// Mixing in other fields revokes the assignee shortcut.
	w = env.request(t, http.MethodPut, fmt.Sprintf("/api/tasks/%d", task.ID), gin.H{
		"status": "Submitted",
		"title":  "Renamed",
	}, &env.dev)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// And another developer's assignment does not transfer.
	w = env.request(t, http.MethodPut, fmt.Sprintf("/api/tasks/%d", task.ID), gin.H{
		"status": "Submitted",
	}, &env.tester)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.request(t, http.MethodPut, fmt.Sprintf("/api/tasks/%d", task.ID), gin.H{
		"status": "Shipped",
	}, &env.pm)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnassignTask(t *testing.T) {
	env := setupTestEnv(t)
	project := env.createProject(t, "Apollo")
	task := env.createTask(t, project.ID, "Wire telemetry", &env.dev.ID)

	// An explicit null clears the assignee.
	w := env.request(t, http.MethodPut, fmt.Sprintf("/api/tasks/%d", task.ID), gin.H{
		"assigned_to": nil,
	}, &env.pm)
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Task
	decodeBody(t, w, &updated)
	assert.Nil(t, updated.AssignedTo)

	// Even a null assignee change is not a status-only update, so the
	// assignee shortcut does not apply.
	second := env.createTask(t, project.ID, "Second", &env.dev.ID)
	w = env.request(t, http.MethodPut, fmt.Sprintf("/api/tasks/%d", second.ID), gin.H{
		"status":      "In Progress",
		"assigned_to": nil,
	}, &env.dev)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateTaskNotFoundBeforeAuthorization(t *testing.T) {
	env := setupTestEnv(t)

	w := env.request(t, http.MethodPut, "/api/tasks/9999", gin.H{
		"status": "In Progress",
	}, &env.dev)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteTask(t *testing.T) {
	env := setupTestEnv(t)
	project := env.createProject(t, "Apollo")
	task := env.createTask(t, project.ID, "Wire telemetry", &env.dev.ID)

	env.createComment(t, task.ID, "In flight", &env.dev)
	env.logTime(t, task.ID, 20, &env.dev)

	w := env.request(t, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", task.ID), nil, &env.dev)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.request(t, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", task.ID), nil, &env.pm)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodGet, fmt.Sprintf("/api/tasks/%d", task.ID), nil, &env.pm)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Comments and time logs go with the task.
	var comments, logs int64
	require.NoError(t, db.DB.Model(&models.Comment{}).Count(&comments).Error)
	require.NoError(t, db.DB.Model(&models.PerformanceLog{}).Count(&logs).Error)
	assert.Zero(t, comments)
	assert.Zero(t, logs)
}

func TestListTaskFilters(t *testing.T) {
	env := setupTestEnv(t)
	project := env.createProject(t, "Apollo")
	other := env.createProject(t, "Borealis")

	env.createTask(t, project.ID, "First", &env.dev.ID)
	env.createTask(t, project.ID, "Second", nil)
	env.createTask(t, other.ID, "Elsewhere", &env.tester.ID)

	w := env.request(t, http.MethodGet, fmt.Sprintf("/api/tasks/project/%d", project.ID), nil, &env.dev)
	require.Equal(t, http.StatusOK, w.Code)

	var tasks []models.Task
	decodeBody(t, w, &tasks)
	assert.Len(t, tasks, 2)

	w = env.request(t, http.MethodGet, fmt.Sprintf("/api/tasks/user/%d", env.dev.ID), nil, &env.dev)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &tasks)
	require.Len(t, tasks, 1)
	assert.Equal(t, "First", tasks[0].Title)

	w = env.request(t, http.MethodGet, "/api/tasks/status/Created", nil, &env.dev)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &tasks)
	assert.Len(t, tasks, 3)

	w = env.request(t, http.MethodGet, "/api/tasks/status/Shipped", nil, &env.dev)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogTaskTime(t *testing.T) {
	env := setupTestEnv(t)
	project := env.createProject(t, "Apollo")
	task := env.createTask(t, project.ID, "Wire telemetry", &env.dev.ID)

	w := env.request(t, http.MethodPost, fmt.Sprintf("/api/tasks/%d/log-time", task.ID), gin.H{
		"time_spent": 45,
	}, &env.dev)
	require.Equal(t, http.StatusCreated, w.Code)

	var log models.PerformanceLog
	decodeBody(t, w, &log)
	assert.Equal(t, env.dev.ID, log.UserID)
	assert.Equal(t, task.ID, log.TaskID)
	assert.Equal(t, 45, log.TimeSpent)

	// Managers can log against any task.
	w = env.request(t, http.MethodPost, fmt.Sprintf("/api/tasks/%d/log-time", task.ID), gin.H{
		"time_spent": 30,
	}, &env.pm)
	assert.Equal(t, http.StatusCreated, w.Code)

	// Non-assignees cannot.
	w = env.request(t, http.MethodPost, fmt.Sprintf("/api/tasks/%d/log-time", task.ID), gin.H{
		"time_spent": 30,
	}, &env.tester)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.request(t, http.MethodPost, "/api/tasks/9999/log-time", gin.H{
		"time_spent": 30,
	}, &env.dev)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLogTaskTimeRejectsNonPositive(t *testing.T) {
	env := setupTestEnv(t)
	project := env.createProject(t, "Apollo")
	task := env.createTask(t, project.ID, "Wire telemetry", &env.dev.ID)

	for _, spent := range []int{0, -15} {
		w := env.request(t, http.MethodPost, fmt.Sprintf("/api/tasks/%d/log-time", task.ID), gin.H{
			"time_spent": spent,
		}, &env.dev)
		assert.Equal(t, http.StatusBadRequest, w.Code, spent)
	}

	var count int64
	require.NoError(t, db.DB.Model(&models.PerformanceLog{}).Count(&count).Error)
	assert.Zero(t, count)
}
package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskboard/internal/domain"
	"taskboard/internal/service"
	"taskboard/internal/validation"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users     service.UserService
	tasks     service.TaskService
	storeMode string
}

func NewHandler(users service.UserService, tasks service.TaskService, storeMode string) *Handler {
	return &Handler{
		users:     users,
		tasks:     tasks,
		storeMode: storeMode,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	api := router.Group("/api")
	{
		api.GET("/users", h.listUsers)
		api.GET("/users/:id", h.getUser)
		api.POST("/users", h.createUser)
		api.PUT("/users/:id", h.updateUser)
		api.DELETE("/users/:id", h.deleteUser)

		api.GET("/tasks", h.listTasks)
		api.GET("/tasks/:id", h.getTask)
		api.POST("/tasks", h.createTask)
		api.PUT("/tasks/:id", h.updateTask)
		api.PATCH("/tasks/:id/status", h.updateTaskStatus)
		api.PATCH("/tasks/:id/move", h.moveTask)
		api.DELETE("/tasks/:id", h.deleteTask)

		api.GET("/health", func(c *gin.Context) {
			respondData(c, http.StatusOK, gin.H{"status": "ok", "store": h.storeMode})
		})
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// --- users ---

type createUserRequest struct {
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Age    *int    `json:"age"`
	Role   *string `json:"role"`
	Active *bool   `json:"active"`
}

type updateUserRequest struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Age    *int    `json:"age"`
	Role   *string `json:"role"`
	Active *bool   `json:"active"`
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]UserResponse, len(users))
	for i := range users {
		resp[i] = userToResponse(users[i])
	}
	respondData(c, http.StatusOK, resp)
}

func (h *Handler) getUser(c *gin.Context) {
	user, err := h.users.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, userToResponse(*user))
}

func (h *Handler) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	input := validation.NewUser{
		Name:   req.Name,
		Email:  req.Email,
		Age:    req.Age,
		Active: req.Active,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		input.Role = &role
	}

	user, err := h.users.CreateUser(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, userToResponse(*user))
}

func (h *Handler) updateUser(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	patch := domain.UserPatch{
		Name:   req.Name,
		Email:  req.Email,
		Age:    req.Age,
		Active: req.Active,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		patch.Role = &role
	}

	user, err := h.users.UpdateUser(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, userToResponse(*user))
}

func (h *Handler) deleteUser(c *gin.Context) {
	if err := h.users.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "User deleted successfully")
}

// --- tasks ---

type createTaskRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      *string `json:"status"`
	User        string  `json:"user"`
}

type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	User        *string `json:"user"`
}

type updateTaskStatusRequest struct {
	Status string `json:"status"`
}

type moveTaskRequest struct {
	User string `json:"user"`
}

func (h *Handler) listTasks(c *gin.Context) {
	tasks, err := h.tasks.ListTasks(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]TaskResponse, len(tasks))
	for i := range tasks {
		resp[i] = taskToResponse(tasks[i])
	}
	respondData(c, http.StatusOK, resp)
}

func (h *Handler) getTask(c *gin.Context) {
	task, err := h.tasks.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, taskToResponse(*task))
}

func (h *Handler) createTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	var status *domain.TaskStatus
	if req.Status != nil {
		s := domain.TaskStatus(*req.Status)
		status = &s
	}

	task, err := h.tasks.CreateTask(c.Request.Context(), req.Title, req.Description, status, req.User)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, taskToResponse(*task))
}

func (h *Handler) updateTask(c *gin.Context) {
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	patch := domain.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		UserID:      req.User,
	}
	if req.Status != nil {
		s := domain.TaskStatus(*req.Status)
		patch.Status = &s
	}

	task, err := h.tasks.UpdateTask(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, taskToResponse(*task))
}

func (h *Handler) updateTaskStatus(c *gin.Context) {
	var req updateTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	task, err := h.tasks.UpdateTaskStatus(c.Request.Context(), c.Param("id"), domain.TaskStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, taskToResponse(*task))
}

func (h *Handler) moveTask(c *gin.Context) {
	var req moveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	task, err := h.tasks.ReassignTask(c.Request.Context(), c.Param("id"), req.User)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, taskToResponse(*task))
}

func (h *Handler) deleteTask(c *gin.Context) {
	if err := h.tasks.DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Task deleted successfully")
}

// --- response shapes ---

type UserResponse struct {
	ID        string      `json:"_id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Age       *int        `json:"age,omitempty"`
	Role      domain.Role `json:"role"`
	Active    bool        `json:"active"`
	CreatedAt string      `json:"createdAt"`
	UpdatedAt string      `json:"updatedAt"`
}

type TaskResponse struct {
	ID          string            `json:"_id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      domain.TaskStatus `json:"status"`
	User        any               `json:"user"`
	CreatedAt   string            `json:"createdAt"`
	UpdatedAt   string            `json:"updatedAt"`
}

// UserRefResponse is the populated form of a task's user reference.
type UserRefResponse struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func userToResponse(user domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Age:       user.Age,
		Role:      user.Role,
		Active:    user.Active,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.Format(time.RFC3339),
	}
}

func taskToResponse(task domain.Task) TaskResponse {
	resp := TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		User:        task.UserID, // unresolved reference: raw id
		CreatedAt:   task.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   task.UpdatedAt.Format(time.RFC3339),
	}
	if task.User != nil {
		resp.User = UserRefResponse{
			ID:    task.User.ID,
			Name:  task.User.Name,
			Email: task.User.Email,
		}
	}
	return resp
}

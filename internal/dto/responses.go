package dto

import (
	"github.com/wmhi/site-portal/internal/aggregate"
	"github.com/wmhi/site-portal/internal/models"
	"github.com/wmhi/site-portal/internal/taskview"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	Avatar string      `json:"avatar"`
}

// TaskDTO is a task with its people and project resolved for display.
type TaskDTO struct {
	models.Task
	AssigneeName   string `json:"assigneeName"`
	AssignerName   string `json:"assignerName"`
	ProjectAddress string `json:"projectAddress,omitempty"`
}

// TaskGroupsDTO mirrors taskview.Groups
type TaskGroupsDTO struct {
	Overdue   []TaskDTO `json:"overdue"`
	Today     []TaskDTO `json:"today"`
	Tomorrow  []TaskDTO `json:"tomorrow"`
	Upcoming  []TaskDTO `json:"upcoming"`
	Completed []TaskDTO `json:"completed"`
	Count     int       `json:"count"`
}

// BoardDTO represents the task board in API responses
type BoardDTO struct {
	ViewingUser UserDTO       `json:"viewingUser"`
	MyTasks     TaskGroupsDTO `json:"myTasks"`
	Delegated   []TaskDTO     `json:"delegated"`
}

// FeedItemDTO is one unified-inbox entry
type FeedItemDTO struct {
	aggregate.FeedItem
	SenderName  string `json:"senderName"`
	SenderLabel string `json:"senderLabel"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:     user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
		Avatar: user.Avatar,
	}
}

func ToUserDTOs(users []models.User) []UserDTO {
	out := make([]UserDTO, len(users))
	for i, u := range users {
		out[i] = ToUserDTO(u)
	}
	return out
}

// ToTaskDTO resolves names against users and the project against jobs.
// Dangling ids resolve to the Unknown placeholder.
func ToTaskDTO(task models.Task, users []models.User, jobs []models.Job) TaskDTO {
	d := TaskDTO{
		Task:         task,
		AssigneeName: models.ResolveUser(users, task.AssignedTo).Name,
		AssignerName: models.ResolveUser(users, task.AssignedBy).Name,
	}
	if task.ProjectID != "" {
		if job, _, ok := models.FindJob(jobs, task.ProjectID); ok {
			d.ProjectAddress = job.Address
		}
	}
	return d
}

func ToTaskDTOs(tasks []models.Task, users []models.User, jobs []models.Job) []TaskDTO {
	out := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		out[i] = ToTaskDTO(t, users, jobs)
	}
	return out
}

func ToBoardDTO(board taskview.Board, users []models.User, jobs []models.Job) BoardDTO {
	g := board.MyTasks
	return BoardDTO{
		ViewingUser: ToUserDTO(board.ViewingUser),
		MyTasks: TaskGroupsDTO{
			Overdue:   ToTaskDTOs(g.Overdue, users, jobs),
			Today:     ToTaskDTOs(g.Today, users, jobs),
			Tomorrow:  ToTaskDTOs(g.Tomorrow, users, jobs),
			Upcoming:  ToTaskDTOs(g.Upcoming, users, jobs),
			Completed: ToTaskDTOs(g.Completed, users, jobs),
			Count:     g.Count(),
		},
		Delegated: ToTaskDTOs(board.Delegated, users, jobs),
	}
}

func ToFeedItemDTOs(items []aggregate.FeedItem, users []models.User) []FeedItemDTO {
	out := make([]FeedItemDTO, len(items))
	for i, item := range items {
		out[i] = FeedItemDTO{
			FeedItem:    item,
			SenderName:  models.ResolveUser(users, item.SenderID).Name,
			SenderLabel: aggregate.SenderLabel(users, item.SenderID),
		}
	}
	return out
}

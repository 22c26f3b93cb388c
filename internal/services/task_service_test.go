package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/wmhi/site-portal/internal/models"
	"github.com/wmhi/site-portal/internal/taskview"
)

type TaskServiceTestSuite struct {
	suite.Suite
	ws       *Workspace
	svc      *TaskService
	admin    models.User
	manager  models.User
	builder  models.User
	surveyor models.User
}

func (s *TaskServiceTestSuite) SetupTest() {
	s.ws, _ = newTestWorkspace(s.T())
	s.svc = NewTaskService(s.ws)
	s.admin = mustUser(s.T(), s.ws, "u1")
	s.manager = mustUser(s.T(), s.ws, "u2")
	s.builder = mustUser(s.T(), s.ws, "u3")
	s.surveyor = mustUser(s.T(), s.ws, "u4")
}

func TestTaskServiceSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}

func taskIDs(tasks []models.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func (s *TaskServiceTestSuite) TestBoard_OwnView() {
	board, err := s.svc.Board(s.admin, "", taskview.Filter{})
	s.Require().NoError(err)
	s.Equal("u1", board.ViewingUser.ID)
	s.ElementsMatch([]string{"t1", "t2"}, taskIDs(board.MyTasks.Upcoming))
	s.Equal([]string{"t3"}, taskIDs(board.Delegated))
}

func (s *TaskServiceTestSuite) TestBoard_AdminViewsOtherUser() {
	board, err := s.svc.Board(s.admin, "u2", taskview.Filter{})
	s.Require().NoError(err)
	s.Equal("u2", board.ViewingUser.ID)
	s.Equal([]string{"t3"}, taskIDs(board.MyTasks.Tomorrow))
	s.Equal([]string{"t1"}, taskIDs(board.Delegated))
}

func (s *TaskServiceTestSuite) TestBoard_NonAdminForcedToOwnBoard() {
	board, err := s.svc.Board(s.manager, "u1", taskview.Filter{})
	s.Require().NoError(err)
	s.Equal("u2", board.ViewingUser.ID)
}

func (s *TaskServiceTestSuite) TestBoard_InvalidFilter() {
	_, err := s.svc.Board(s.admin, "", taskview.Filter{Status: "later"})
	s.ErrorIs(err, taskview.ErrInvalidStatusFilter)
}

func (s *TaskServiceTestSuite) TestCreate_SelfDefaults() {
	task, err := s.svc.Create(s.builder, CreateTaskInput{Title: "  Buy screws "})
	s.Require().NoError(err)
	s.Equal("Buy screws", task.Title)
	s.Equal("u3", task.AssignedTo)
	s.Equal("u3", task.AssignedBy)
	s.Equal(models.TaskPriorityMedium, task.Priority)
	s.Equal(models.TaskStatusPending, task.Status)
	s.Equal("2024-03-15", task.DueDate)
	s.True(task.IsPersonal())
	s.Require().Len(task.ActivityLog, 1)
	s.Equal(models.ActivityCreation, task.ActivityLog[0].Type)
	s.Equal("Task created", task.ActivityLog[0].Details)

	s.Equal(task.ID, s.ws.Tasks()[0].ID)
}

func (s *TaskServiceTestSuite) TestCreate_Individual() {
	_, err := s.svc.Create(s.manager, CreateTaskInput{Kind: TaskKindIndividual, Title: "x"})
	s.ErrorIs(err, ErrAssigneeRequired)
	_, err = s.svc.Create(s.manager, CreateTaskInput{Kind: TaskKindIndividual, Title: "x", AssigneeID: "ghost"})
	s.ErrorIs(err, ErrUserNotFound)

	task, err := s.svc.Create(s.manager, CreateTaskInput{Kind: TaskKindIndividual, Title: "Survey", AssigneeID: "u4", Priority: models.TaskPriorityUrgent})
	s.Require().NoError(err)
	s.Equal("u4", task.AssignedTo)
	s.Equal("u2", task.AssignedBy)
	s.Equal(models.TaskPriorityUrgent, task.Priority)
}

func (s *TaskServiceTestSuite) TestCreate_ProjectAssigneeMustBeOnTeam() {
	_, err := s.svc.Create(s.manager, CreateTaskInput{Kind: TaskKindProject, Title: "x", AssigneeID: "u3"})
	s.ErrorIs(err, ErrProjectRequired)

	_, err = s.svc.Create(s.manager, CreateTaskInput{Kind: TaskKindProject, Title: "x", ProjectID: "j1", AssigneeID: "u4"})
	s.ErrorIs(err, ErrAssigneeNotOnTeam)

	_, err = s.svc.Create(s.manager, CreateTaskInput{Kind: TaskKindProject, Title: "x", ProjectID: "j3", AssigneeID: "u1"})
	s.ErrorIs(err, ErrJobNotFound)

	task, err := s.svc.Create(s.manager, CreateTaskInput{Kind: TaskKindProject, Title: "Fit membrane", ProjectID: "j1", AssigneeID: "u3"})
	s.Require().NoError(err)
	s.Equal("j1", task.ProjectID)

	// admins can always take project work
	_, err = s.svc.Create(s.manager, CreateTaskInput{Kind: TaskKindProject, Title: "Invoice", ProjectID: "j1", AssigneeID: "u1"})
	s.NoError(err)
}

func (s *TaskServiceTestSuite) TestCreate_Validation() {
	_, err := s.svc.Create(s.admin, CreateTaskInput{Title: " "})
	s.ErrorIs(err, ErrTitleRequired)
	_, err = s.svc.Create(s.admin, CreateTaskInput{Title: "x", Kind: "team"})
	s.ErrorIs(err, ErrInvalidTaskKind)
	_, err = s.svc.Create(s.admin, CreateTaskInput{Title: "x", Priority: "Critical"})
	s.ErrorIs(err, ErrInvalidTaskPriority)
	_, err = s.svc.Create(s.admin, CreateTaskInput{Title: "x", DueDate: "tomorrow"})
	s.ErrorIs(err, ErrInvalidDate)
	s.Len(s.ws.Tasks(), 3)
}

func (s *TaskServiceTestSuite) TestAssignableUsers() {
	users, err := s.svc.AssignableUsers(s.manager, "j1")
	s.Require().NoError(err)
	var got []string
	for _, u := range users {
		got = append(got, u.ID)
	}
	s.ElementsMatch([]string{"u1", "u2", "u3"}, got)

	users, err = s.svc.AssignableUsers(s.manager, "")
	s.Require().NoError(err)
	s.Len(users, 6)

	_, err = s.svc.AssignableUsers(s.builder, "j2")
	s.ErrorIs(err, ErrJobNotFound)
}

func (s *TaskServiceTestSuite) TestUpdate_LogsChangesInOrder() {
	priority := models.TaskPriorityLow
	assignee := "u3"
	due := "2024-04-01"
	desc := "Two skips, one for rubble"

	task, err := s.svc.Update(s.manager, "t1", UpdateTaskInput{Priority: &priority, AssigneeID: &assignee, DueDate: &due, Description: &desc})
	s.Require().NoError(err)
	s.Require().Len(task.ActivityLog, 4)
	s.Equal(models.ActivityPriorityChange, task.ActivityLog[0].Type)
	s.Equal("Priority changed to Low", task.ActivityLog[0].Details)
	s.Equal("Reassigned to Dave (Builder)", task.ActivityLog[1].Details)
	s.Equal("Due date changed to 2024-04-01", task.ActivityLog[2].Details)
	s.Equal("al1", task.ActivityLog[3].ID)
	s.Equal("u2", task.ActivityLog[0].UserID)
}

func (s *TaskServiceTestSuite) TestUpdate_TitleOnlyAddsNothing() {
	title := "Order three skips"
	task, err := s.svc.Update(s.manager, "t1", UpdateTaskInput{Title: &title})
	s.Require().NoError(err)
	s.Equal(title, task.Title)
	s.Len(task.ActivityLog, 1)

	empty := "  "
	_, err = s.svc.Update(s.manager, "t1", UpdateTaskInput{Title: &empty})
	s.ErrorIs(err, ErrTitleEmpty)
}

func (s *TaskServiceTestSuite) TestUpdate_ReassignOffTeamRejected() {
	assignee := "u4"
	_, err := s.svc.Update(s.manager, "t1", UpdateTaskInput{AssigneeID: &assignee})
	s.ErrorIs(err, ErrAssigneeNotOnTeam)

	task, _ := s.ws.FindTask("t1")
	s.Equal("u1", task.AssignedTo)
}

func (s *TaskServiceTestSuite) TestToggleStatus() {
	task, err := s.svc.ToggleStatus(s.admin, "t1")
	s.Require().NoError(err)
	s.Equal(models.TaskStatusCompleted, task.Status)
	s.Equal("Marked as Completed", task.ActivityLog[0].Details)

	task, err = s.svc.ToggleStatus(s.admin, "t1")
	s.Require().NoError(err)
	s.Equal(models.TaskStatusPending, task.Status)
	s.Len(task.ActivityLog, 3)
}

func (s *TaskServiceTestSuite) TestSetStatus() {
	task, err := s.svc.SetStatus(s.manager, "t3", models.TaskStatusInProgress)
	s.Require().NoError(err)
	s.Equal(models.TaskStatusInProgress, task.Status)
	s.Equal(models.ActivityStatusChange, task.ActivityLog[0].Type)

	_, err = s.svc.SetStatus(s.manager, "t3", "Blocked")
	s.ErrorIs(err, ErrInvalidTaskStatus)
}

func (s *TaskServiceTestSuite) TestAttach() {
	task, err := s.svc.Attach(s.admin, "t2", "risk.png", "image/png", "data:image/png;base64,AAAA")
	s.Require().NoError(err)
	s.Require().Len(task.Attachments, 1)
	s.Equal(models.AttachmentImage, task.Attachments[0].Type)
	s.Equal("u1", task.Attachments[0].UploadedBy)
	s.Equal("Uploaded risk.png", task.ActivityLog[0].Details)

	task, err = s.svc.Attach(s.admin, "t2", "policy.pdf", "application/pdf", "")
	s.Require().NoError(err)
	s.Equal("policy.pdf", task.Attachments[0].Name)
	s.Equal(models.AttachmentDocument, task.Attachments[0].Type)
}

func (s *TaskServiceTestSuite) TestComment() {
	task, err := s.svc.Comment(s.manager, "t3", "Inspector confirmed")
	s.Require().NoError(err)
	s.Equal(models.ActivityComment, task.ActivityLog[0].Type)
	s.Equal("Inspector confirmed", task.ActivityLog[0].Details)

	_, err = s.svc.Comment(s.manager, "t3", "")
	s.ErrorIs(err, ErrEmptyComment)
}

func (s *TaskServiceTestSuite) TestAccess() {
	_, err := s.svc.Get(s.builder, "t1")
	s.ErrorIs(err, ErrTaskNotFound)

	task, err := s.svc.Get(s.manager, "t1")
	s.Require().NoError(err)
	s.Equal("t1", task.ID)

	_, err = s.svc.Get(s.admin, "t1")
	s.NoError(err)

	_, err = s.svc.ToggleStatus(s.surveyor, "t3")
	s.ErrorIs(err, ErrTaskNotFound)
}

func (s *TaskServiceTestSuite) TestDelete() {
	s.ErrorIs(s.svc.Delete(s.builder, "t1"), ErrTaskNotFound)
	s.Require().NoError(s.svc.Delete(s.manager, "t1"))
	s.Len(s.ws.Tasks(), 2)
	s.ErrorIs(s.svc.Delete(s.manager, "t1"), ErrTaskNotFound)
}

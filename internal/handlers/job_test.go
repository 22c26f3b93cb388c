package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/wmhi/site-portal/internal/models"
	"github.com/wmhi/site-portal/internal/services"
)

type JobHandlerTestSuite struct {
	PortalTestSuite
}

func TestJobHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(JobHandlerTestSuite))
}

type jobList struct {
	Jobs  []models.Job `json:"jobs"`
	Count int          `json:"count"`
}

func (suite *JobHandlerTestSuite) TestListJobs_Visibility() {
	var resp jobList
	w := suite.do(http.MethodGet, "/api/jobs", nil, suite.login(managerEmail))
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.decode(w, &resp)
	suite.Equal(2, resp.Count)

	w = suite.do(http.MethodGet, "/api/jobs?status=Completed", nil, suite.login(adminEmail))
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.decode(w, &resp)
	suite.Require().Len(resp.Jobs, 1)
	suite.Equal("j4", resp.Jobs[0].ID)
}

func (suite *JobHandlerTestSuite) TestListJobs_InvalidFilters() {
	cookies := suite.login(adminEmail)
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/api/jobs?sort=alpha", nil, cookies).Code)
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/api/jobs?status=Lost", nil, cookies).Code)
}

func (suite *JobHandlerTestSuite) TestGetJob_HiddenOutsideTeam() {
	suite.Equal(http.StatusNotFound, suite.do(http.MethodGet, "/api/jobs/j3", nil, suite.login(managerEmail)).Code)

	w := suite.do(http.MethodGet, "/api/jobs/j3", nil, suite.login(adminEmail))
	suite.Require().Equal(http.StatusOK, w.Code)
	var job models.Job
	suite.decode(w, &job)
	suite.Equal("Helen Smith", job.ClientName)
}

func (suite *JobHandlerTestSuite) TestCreateJob() {
	w := suite.do(http.MethodPost, "/api/jobs", map[string]any{
		"clientName": "Ann Lee",
		"address":    "1 Test St, Walsall",
		"type":       "Extension",
		"value":      30000,
	}, suite.login(managerEmail))
	suite.Require().Equal(http.StatusCreated, w.Code)

	var job models.Job
	suite.decode(w, &job)
	suite.Equal(models.JobStatusNewJob, job.Status)
	suite.Equal([]string{"u2"}, job.AssignedTeam)
	suite.Equal(job.ID, suite.ws.Jobs()[0].ID)

	w = suite.do(http.MethodPost, "/api/jobs", map[string]any{"clientName": "x"}, suite.login(managerEmail))
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *JobHandlerTestSuite) TestUpdateJob() {
	cookies := suite.login(managerEmail)
	w := suite.do(http.MethodPatch, "/api/jobs/j1", map[string]any{
		"status":     "Snagging",
		"nextAction": "Snag list walk-round",
	}, cookies)
	suite.Require().Equal(http.StatusOK, w.Code)

	job, _ := suite.ws.FindJob("j1")
	suite.Equal(models.JobStatusSnagging, job.Status)
	suite.Equal("Snag list walk-round", job.NextAction)
	suite.Equal("First Fix", string(job.CurrentStage))

	w = suite.do(http.MethodPatch, "/api/jobs/j1", map[string]any{"status": "Lost"}, cookies)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *JobHandlerTestSuite) TestDeleteJob_AdminOnly() {
	suite.Equal(http.StatusForbidden, suite.do(http.MethodDelete, "/api/jobs/j1", nil, suite.login(managerEmail)).Code)
	suite.Equal(http.StatusOK, suite.do(http.MethodDelete, "/api/jobs/j1", nil, suite.login(adminEmail)).Code)
	suite.Len(suite.ws.Jobs(), 4)
}

func (suite *JobHandlerTestSuite) TestMessagesAndPhotos() {
	cookies := suite.login(builderEmail)

	w := suite.do(http.MethodPost, "/api/jobs/j1/messages", map[string]string{"text": "Membrane ordered"}, cookies)
	suite.Require().Equal(http.StatusCreated, w.Code)

	w = suite.upload("/api/jobs/j1/photos", "wall.jpg", "image/jpeg", []byte("jpeg"), nil, cookies)
	suite.Require().Equal(http.StatusCreated, w.Code)

	var resp struct {
		Messages []models.Message `json:"messages"`
	}
	w = suite.do(http.MethodGet, "/api/jobs/j1/messages?q=uploaded", nil, cookies)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.decode(w, &resp)
	suite.Require().Len(resp.Messages, 1)
	suite.Equal("Uploaded photo: wall.jpg", resp.Messages[0].Text)
}

func (suite *JobHandlerTestSuite) TestNotes() {
	cookies := suite.login(builderEmail)

	w := suite.do(http.MethodPost, "/api/jobs/j4/notes", map[string]string{"content": "Invoice sent"}, cookies)
	suite.Require().Equal(http.StatusCreated, w.Code)

	var resp struct {
		Notes []models.Note `json:"notes"`
	}
	w = suite.do(http.MethodGet, "/api/jobs/j4/notes", nil, cookies)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.decode(w, &resp)
	suite.Require().Len(resp.Notes, 2)
	suite.Equal("Invoice sent", resp.Notes[0].Content)
}

func (suite *JobHandlerTestSuite) TestDocumentsAndForms() {
	cookies := suite.login(managerEmail)

	w := suite.upload("/api/jobs/j2/documents", "Elevations.pdf", "application/pdf", []byte("%PDF"),
		map[string]string{"field": "architectPlans"}, cookies)
	suite.Require().Equal(http.StatusCreated, w.Code)

	w = suite.do(http.MethodPost, "/api/jobs/j2/documents", map[string]string{"field": "structuralCalculations", "name": "Beam.pdf"}, cookies)
	suite.Require().Equal(http.StatusCreated, w.Code)

	job, _ := suite.ws.FindJob("j2")
	suite.Equal([]string{"Full_Set_A1.pdf", "Elevations.pdf"}, job.ArchitectPlans)
	suite.Equal([]string{"Beam.pdf"}, job.StructuralCalculations)

	suite.Equal(http.StatusOK, suite.do(http.MethodDelete, "/api/jobs/j2/documents/architectPlans/0", nil, cookies).Code)
	suite.Equal(http.StatusNotFound, suite.do(http.MethodDelete, "/api/jobs/j2/documents/architectPlans/9", nil, cookies).Code)
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodDelete, "/api/jobs/j2/documents/architectPlans/x", nil, cookies).Code)

	w = suite.do(http.MethodPut, "/api/jobs/j2/forms/liabilityForm", map[string]string{"name": "liability.pdf"}, cookies)
	suite.Require().Equal(http.StatusOK, w.Code)
	job, _ = suite.ws.FindJob("j2")
	suite.Equal("liability.pdf", job.LiabilityForm)

	w = suite.do(http.MethodPut, "/api/jobs/j2/forms/taxReturn", map[string]string{"name": "x.pdf"}, cookies)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *JobHandlerTestSuite) TestSelection() {
	cookies := suite.login(managerEmail)
	suite.Equal(http.StatusNotFound, suite.do(http.MethodGet, "/api/jobs/selected", nil, cookies).Code)
	suite.Equal(http.StatusNoContent, suite.do(http.MethodPost, "/api/jobs/j2/select", nil, cookies).Code)

	w := suite.do(http.MethodGet, "/api/jobs/selected", nil, cookies)
	suite.Require().Equal(http.StatusOK, w.Code)
	var job models.Job
	suite.decode(w, &job)
	suite.Equal("j2", job.ID)
}

func (suite *JobHandlerTestSuite) TestAI_FallsBackWithoutKey() {
	cookies := suite.login(managerEmail)

	var summary map[string]string
	w := suite.do(http.MethodPost, "/api/jobs/j1/summary", nil, cookies)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.decode(w, &summary)
	suite.Equal(services.SummaryErrorText, summary["summary"])

	var draft map[string]string
	w = suite.do(http.MethodPost, "/api/jobs/j1/client-update", nil, cookies)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.decode(w, &draft)
	suite.Equal(services.DraftErrorText, draft["draft"])

	suite.Equal(http.StatusNotFound, suite.do(http.MethodPost, "/api/jobs/j3/summary", nil, cookies).Code)
}

package echoapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/notification"
	"github.com/trezcool/mahudhurio/core/report"
	"github.com/trezcool/mahudhurio/core/school"
	"github.com/trezcool/mahudhurio/core/teacher"
	emailsvc "github.com/trezcool/mahudhurio/services/email"
	logsvc "github.com/trezcool/mahudhurio/services/logger"
	textsvc "github.com/trezcool/mahudhurio/services/text"
	dummydb "github.com/trezcool/mahudhurio/storage/database/dummy"
)

type testApp struct {
	server Server
	email  *emailsvc.DummyService
	text   *textsvc.DummyService
}

func setup(t *testing.T) *testApp {
	t.Helper()

	db, err := dummydb.Open()
	require.NoError(t, err)

	teacherRepo := dummydb.NewTeacherRepository(db)
	schoolRepo := dummydb.NewSchoolRepository(db)
	attRepo := dummydb.NewAttendanceRepository(db)
	reportRepo := dummydb.NewReportRepository(db)

	email := emailsvc.NewDummyService()
	text := textsvc.NewDummyService()
	logger := logsvc.NewDummyLogger(log.New(ioutil.Discard, "", 0))

	teacherSvc := teacher.NewService(teacherRepo)
	server := NewServer(&Options{
		Address:         ":0",
		DisableReqLogs:  true,
		Logger:          logger,
		TeacherSvc:      teacherSvc,
		SchoolSvc:       school.NewService(schoolRepo),
		AttendanceSvc:   attendance.NewService(attRepo, schoolRepo),
		ReportSvc:       report.NewService(reportRepo, attRepo, schoolRepo),
		NotificationSvc: notification.NewService(schoolRepo, attRepo, email, text, logger),
	})
	return &testApp{server: server, email: email, text: text}
}

func (app *testApp) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buff bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buff).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buff)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.server.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, into interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), into))
}

func (app *testApp) registerTeacher(t *testing.T) (string, teacher.Teacher) {
	t.Helper()

	rec := app.do(t, http.MethodPost, "/v1/teachers/register", "", map[string]string{
		"name":             "Mwalimu Asha",
		"email":            "asha@test.cd",
		"password":         "s3cretword",
		"password_confirm": "s3cretword",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp LoginResponse
	decode(t, rec, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token, resp.Teacher
}

func (app *testApp) createClass(t *testing.T, token string) school.Class {
	t.Helper()

	rec := app.do(t, http.MethodPost, "/v1/classes", token, map[string]interface{}{
		"name":          "Hisabati",
		"code":          "MATH101",
		"academic_year": "2021-2022",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var class school.Class
	decode(t, rec, &class)
	return class
}

func (app *testApp) addStudent(t *testing.T, token, classID string, body map[string]string) school.Student {
	t.Helper()

	rec := app.do(t, http.MethodPost, "/v1/classes/"+classID+"/students", token, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var student school.Student
	decode(t, rec, &student)
	return student
}

func Test_teacherApi(t *testing.T) {
	app := setup(t)

	token, tchr := app.registerTeacher(t)
	assert.Equal(t, "asha@test.cd", tchr.Email)

	// duplicate email
	rec := app.do(t, http.MethodPost, "/v1/teachers/register", "", map[string]string{
		"name": "Imposter", "email": "asha@test.cd", "password": "s3cretword", "password_confirm": "s3cretword",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// login
	rec = app.do(t, http.MethodPost, "/v1/teachers/login", "", map[string]string{
		"email": "asha@test.cd", "password": "s3cretword",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	// wrong password
	rec = app.do(t, http.MethodPost, "/v1/teachers/login", "", map[string]string{
		"email": "asha@test.cd", "password": "nope",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// me
	rec = app.do(t, http.MethodGet, "/v1/teachers/me", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// me without token
	rec = app.do(t, http.MethodGet, "/v1/teachers/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func Test_schoolApi(t *testing.T) {
	app := setup(t)
	token, _ := app.registerTeacher(t)

	// unauthenticated
	rec := app.do(t, http.MethodPost, "/v1/classes", "", map[string]string{"name": "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	class := app.createClass(t, token)
	assert.Equal(t, "MATH101", class.Code)
	assert.Equal(t, "A", class.Section)
	assert.Equal(t, 1, class.Semester)

	// duplicate class code
	rec = app.do(t, http.MethodPost, "/v1/classes", token, map[string]interface{}{
		"name": "Fizikia", "code": "MATH101", "academic_year": "2021-2022",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// list
	rec = app.do(t, http.MethodGet, "/v1/classes", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var classes []school.Class
	decode(t, rec, &classes)
	assert.Len(t, classes, 1)

	// students
	student := app.addStudent(t, token, class.ID, map[string]string{"roll_number": "1", "name": "Amina"})
	assert.Equal(t, class.ID, student.ClassID)

	// duplicate roll number in same class
	rec = app.do(t, http.MethodPost, "/v1/classes/"+class.ID+"/students", token, map[string]string{
		"roll_number": "1", "name": "Bahati",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// unknown class
	rec = app.do(t, http.MethodGet, "/v1/classes/nope", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// update student
	rec = app.do(t, http.MethodPut, "/v1/students/"+student.ID, token, map[string]string{"parent_email": "mzazi@test.cd"})
	assert.Equal(t, http.StatusOK, rec.Code)
	var updated school.Student
	decode(t, rec, &updated)
	assert.Equal(t, "mzazi@test.cd", updated.ParentEmail)

	// delete student
	rec = app.do(t, http.MethodDelete, "/v1/students/"+student.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = app.do(t, http.MethodGet, "/v1/students/"+student.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func Test_attendanceApi(t *testing.T) {
	app := setup(t)
	token, _ := app.registerTeacher(t)
	class := app.createClass(t, token)
	s1 := app.addStudent(t, token, class.ID, map[string]string{"roll_number": "1", "name": "Amina"})
	s2 := app.addStudent(t, token, class.ID, map[string]string{"roll_number": "2", "name": "Bahati"})

	base := "/v1/classes/" + class.ID + "/attendance"

	// missing date
	rec := app.do(t, http.MethodGet, base, token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// lazy creation, all Present
	rec = app.do(t, http.MethodGet, base+"?date=2021-06-07", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var att attendance.Attendance
	decode(t, rec, &att)
	require.Len(t, att.Records, 2)
	for _, r := range att.Records {
		assert.Equal(t, attendance.StatusPresent, r.Status)
	}

	// save
	rec = app.do(t, http.MethodPost, base, token, map[string]interface{}{
		"date": "2021-06-07",
		"records": []map[string]string{
			{"student_id": s1.ID, "status": "Absent", "remarks": "sick"},
			{"student_id": s2.ID, "status": "Late"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// invalid status
	rec = app.do(t, http.MethodPost, base, token, map[string]interface{}{
		"date":    "2021-06-07",
		"records": []map[string]string{{"student_id": s1.ID, "status": "Netflix"}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// history
	rec = app.do(t, http.MethodGet, base+"/history?start_date=2021-06-01&end_date=2021-06-30", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var atts []attendance.Attendance
	decode(t, rec, &atts)
	assert.Len(t, atts, 1)

	// lock, then save is refused
	rec = app.do(t, http.MethodPut, base+"/lock", token, map[string]string{"date": "2021-06-07"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &att)
	assert.True(t, att.IsLocked)

	rec = app.do(t, http.MethodPost, base, token, map[string]interface{}{
		"date":    "2021-06-07",
		"records": []map[string]string{{"student_id": s1.ID, "status": "Present"}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// locking a day with no sheet
	rec = app.do(t, http.MethodPut, base+"/lock", token, map[string]string{"date": "2021-06-08"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func Test_reportApi(t *testing.T) {
	app := setup(t)
	token, _ := app.registerTeacher(t)
	class := app.createClass(t, token)
	s1 := app.addStudent(t, token, class.ID, map[string]string{"roll_number": "1", "name": "Amina"})
	app.addStudent(t, token, class.ID, map[string]string{"roll_number": "2", "name": "Bahati"})

	attBase := "/v1/classes/" + class.ID + "/attendance"
	rec := app.do(t, http.MethodGet, attBase+"?date=2021-06-07", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// no data in range
	rec = app.do(t, http.MethodPost, "/v1/classes/"+class.ID+"/reports", token, map[string]string{
		"start_date": "2021-01-01", "end_date": "2021-01-31", "report_type": "Class",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// class report
	rec = app.do(t, http.MethodPost, "/v1/classes/"+class.ID+"/reports", token, map[string]string{
		"start_date": "2021-06-01", "end_date": "2021-06-30", "report_type": "Class",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var rpt report.Report
	decode(t, rec, &rpt)
	assert.Equal(t, report.TypeClass, rpt.Type)
	assert.Equal(t, "Class Attendance Report", rpt.Title)

	// individual report
	rec = app.do(t, http.MethodPost, "/v1/classes/"+class.ID+"/reports", token, map[string]string{
		"start_date": "2021-06-01", "end_date": "2021-06-30", "report_type": "Individual", "student_id": s1.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// individual without student
	rec = app.do(t, http.MethodPost, "/v1/classes/"+class.ID+"/reports", token, map[string]string{
		"start_date": "2021-06-01", "end_date": "2021-06-30", "report_type": "Individual",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// listings
	rec = app.do(t, http.MethodGet, "/v1/classes/"+class.ID+"/reports", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var reports []report.Report
	decode(t, rec, &reports)
	assert.Len(t, reports, 1) // class-wide only

	rec = app.do(t, http.MethodGet, "/v1/students/"+s1.ID+"/reports", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &reports)
	assert.Len(t, reports, 1)

	// share
	rec = app.do(t, http.MethodPost, "/v1/reports/"+rpt.ID+"/share", token, map[string]string{"share_via": "WhatsApp"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var shared report.Report
	decode(t, rec, &shared)
	assert.True(t, shared.IsShared)
	assert.Equal(t, report.ShareWhatsApp, shared.ShareVia)

	// delete
	rec = app.do(t, http.MethodDelete, "/v1/reports/"+rpt.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = app.do(t, http.MethodGet, "/v1/reports/"+rpt.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func Test_notificationApi(t *testing.T) {
	app := setup(t)
	token, _ := app.registerTeacher(t)
	class := app.createClass(t, token)
	s1 := app.addStudent(t, token, class.ID, map[string]string{
		"roll_number": "1", "name": "Amina", "parent_email": "mzazi@test.cd", "parent_phone": "8123456789",
	})
	app.addStudent(t, token, class.ID, map[string]string{"roll_number": "2", "name": "Bahati"})

	// mark s1 absent for two days
	attBase := "/v1/classes/" + class.ID + "/attendance"
	for _, date := range []string{"2021-06-07", "2021-06-08"} {
		rec := app.do(t, http.MethodGet, attBase+fmt.Sprintf("?date=%s", date), token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		rec = app.do(t, http.MethodPost, attBase, token, map[string]interface{}{
			"date":    date,
			"records": []map[string]string{{"student_id": s1.ID, "status": "Absent"}},
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	base := "/v1/classes/" + class.ID + "/notifications"

	// low-attendance listing
	rec := app.do(t, http.MethodGet, base+"/low-attendance?threshold=75", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var alerts []notification.Alert
	decode(t, rec, &alerts)
	require.Len(t, alerts, 1)
	assert.Equal(t, s1.ID, alerts[0].Student.ID)
	assert.Equal(t, float64(0), alerts[0].Stats.AttendancePercentage)

	// bad threshold
	rec = app.do(t, http.MethodGet, base+"/low-attendance?threshold=lol", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// send email alerts
	rec = app.do(t, http.MethodPost, base+"/send", token, map[string]interface{}{"channel": "Email"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp SendAlertsResponse
	decode(t, rec, &resp)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, notification.StatusSent, resp.Outcomes[0].Status)
	assert.Equal(t, "mzazi@test.cd", resp.Outcomes[0].Target)
	assert.Len(t, app.email.Messages, 1)

	// send SMS alerts
	rec = app.do(t, http.MethodPost, base+"/send", token, map[string]interface{}{"channel": "SMS"})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &resp)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "+918123456789", resp.Outcomes[0].Target)

	// unknown channel
	rec = app.do(t, http.MethodPost, base+"/send", token, map[string]interface{}{"channel": "Pigeon"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

package main

import (
	"log"
	"os"

	"github.com/trezcool/mahudhurio/apps/api/echo"
	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/notification"
	"github.com/trezcool/mahudhurio/core/report"
	"github.com/trezcool/mahudhurio/core/school"
	"github.com/trezcool/mahudhurio/core/teacher"
	"github.com/trezcool/mahudhurio/services/email"
	"github.com/trezcool/mahudhurio/services/logger"
	"github.com/trezcool/mahudhurio/services/text"
	"github.com/trezcool/mahudhurio/storage/database/mongodb"
)

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	// set up logger
	var logger core.Logger
	if core.Conf.RollbarToken != "" {
		logger = logsvc.NewRollbarLogger(std, core.Conf)
		logger.Enable(!core.Conf.Debug)
	} else {
		logger = logsvc.NewDummyLogger(std)
	}

	// set up DB
	db, err := mongodb.Open()
	errAndDie(std, err)
	defer db.Close()

	teacherRepo := mongodb.NewTeacherRepository(db)
	schoolRepo := mongodb.NewSchoolRepository(db)
	attRepo := mongodb.NewAttendanceRepository(db)
	reportRepo := mongodb.NewReportRepository(db)

	// set up services
	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}
	textSvc := textsvc.NewConsoleService()

	teacherSvc := teacher.NewService(teacherRepo)
	schoolSvc := school.NewService(schoolRepo)
	attSvc := attendance.NewService(attRepo, schoolRepo)
	reportSvc := report.NewService(reportRepo, attRepo, schoolRepo)
	notifSvc := notification.NewService(schoolRepo, attRepo, mailSvc, textSvc, logger)

	// start API server
	app := echoapi.NewServer(
		&echoapi.Options{
			Address:         core.Conf.Server.Addr,
			Logger:          logger,
			TeacherSvc:      teacherSvc,
			SchoolSvc:       schoolSvc,
			AttendanceSvc:   attSvc,
			ReportSvc:       reportSvc,
			NotificationSvc: notifSvc,
		},
	)
	app.Start()
}

func errAndDie(std *log.Logger, err error) {
	if err != nil {
		std.Fatal(err)
	}
}

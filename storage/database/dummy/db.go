package dummydb

import (
	"sync"

	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/report"
	"github.com/trezcool/mahudhurio/core/school"
	"github.com/trezcool/mahudhurio/core/teacher"
)

type (
	DB struct {
		teacher    *teacherTable
		class      *classTable
		student    *studentTable
		attendance *attendanceTable
		report     *reportTable
	}

	teacherTable struct {
		sync.RWMutex
		table map[string]*teacher.Teacher
	}

	classTable struct {
		sync.RWMutex
		table map[string]*school.Class
	}

	studentTable struct {
		sync.RWMutex
		table map[string]*school.Student
	}

	attendanceTable struct {
		sync.RWMutex
		table map[string]*attendance.Attendance
	}

	reportTable struct {
		sync.RWMutex
		table map[string]*report.Report
	}
)

func Open() (*DB, error) {
	db := &DB{
		teacher:    &teacherTable{table: make(map[string]*teacher.Teacher)},
		class:      &classTable{table: make(map[string]*school.Class)},
		student:    &studentTable{table: make(map[string]*school.Student)},
		attendance: &attendanceTable{table: make(map[string]*attendance.Attendance)},
		report:     &reportTable{table: make(map[string]*report.Report)},
	}
	return db, nil
}

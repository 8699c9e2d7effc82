package school

import "testing"

func TestStudent_contactFallbacks(t *testing.T) {
	tests := []struct {
		name      string
		student   Student
		wantPhone string
		wantEmail string
	}{
		{
			name: "parent contacts win",
			student: Student{
				Phone: "9876543210", ParentPhone: "9123456789",
				Email: "kid@test.cd", ParentEmail: "parent@test.cd",
			},
			wantPhone: "9123456789",
			wantEmail: "parent@test.cd",
		},
		{
			name:      "own contacts as fallback",
			student:   Student{Phone: "9876543210", Email: "kid@test.cd"},
			wantPhone: "9876543210",
			wantEmail: "kid@test.cd",
		},
		{
			name:    "nothing available",
			student: Student{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.student.ContactPhone(); got != tt.wantPhone {
				t.Errorf("ContactPhone() = %q, want %q", got, tt.wantPhone)
			}
			if got := tt.student.ContactEmail(); got != tt.wantEmail {
				t.Errorf("ContactEmail() = %q, want %q", got, tt.wantEmail)
			}
		})
	}
}

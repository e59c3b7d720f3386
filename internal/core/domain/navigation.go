package domain

// Section is the top-level action group currently shown. At most one is visible.
type Section string

const (
	SectionNone     Section = ""
	SectionRegister Section = "register"
	SectionLogin    Section = "login"
	SectionStudent  Section = "student"
	SectionTeacher  Section = "teacher"
	SectionAdmin    Section = "admin"
)

func ParseSection(s string) (Section, error) {
	switch sec := Section(s); sec {
	case SectionRegister, SectionLogin, SectionStudent, SectionTeacher, SectionAdmin:
		return sec, nil
	}
	return SectionNone, ErrUnknownSection
}

// Select returns the section visible after a menu click on target.
// The menu hides every section before showing the target, so clicking the
// section that is already shown keeps it shown.
func Select(current, target Section) Section {
	return target
}

// ViewKey names one view. Each view has its own request sequence.
type ViewKey string

const (
	ViewRegister       ViewKey = "register"
	ViewLogin          ViewKey = "login"
	ViewDashboard      ViewKey = "dashboard"
	ViewLookup         ViewKey = "lookup"
	ViewReport         ViewKey = "report"
	ViewCourses        ViewKey = "courses"
	ViewStudents       ViewKey = "students"
	ViewGrade          ViewKey = "grade"
	ViewCreateSemester ViewKey = "create_semester"
	ViewSetActive      ViewKey = "set_active_semester"
	ViewSemesters      ViewKey = "semesters"
	ViewActiveSemester ViewKey = "active_semester"
)

var sectionViews = map[Section][]ViewKey{
	SectionRegister: {ViewRegister},
	SectionLogin:    {ViewLogin},
	SectionStudent:  {ViewDashboard, ViewLookup, ViewReport},
	SectionTeacher:  {ViewCourses, ViewStudents, ViewGrade},
	SectionAdmin:    {ViewCreateSemester, ViewSetActive, ViewSemesters, ViewActiveSemester},
}

// ViewsOf lists the views mounted while s is shown.
func ViewsOf(s Section) []ViewKey {
	return sectionViews[s]
}

package service

import (
	"strings"
	"time"

	"github.com/noah-isme/school-core/internal/models"
	appErrors "github.com/noah-isme/school-core/pkg/errors"
)

// Difficulty rates a course variant.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Course variant tags as stored in course_type. French, english and spanish
// are distinct tags sharing the language profile.
const (
	CourseTypeMath    = "math"
	CourseTypeScience = "science"
	CourseTypeHistory = "history"
	CourseTypeFrench  = "french"
	CourseTypeEnglish = "english"
	CourseTypeSpanish = "spanish"
)

// CourseKind identifies one course variant. Language is set only for the
// language variants.
type CourseKind struct {
	Tag      string
	Language string
}

// CourseProfile is the fixed material/equipment/difficulty set of a variant.
type CourseProfile struct {
	Materials  []string
	Equipment  []string
	Difficulty Difficulty
}

// CourseBase carries the caller-supplied fields of a new course; the factory
// supplies the course type.
type CourseBase struct {
	Name        string    `validate:"required"`
	Description string    `validate:"required"`
	StartDate   time.Time `validate:"required"`
	EndDate     time.Time `validate:"required"`
	TeacherID   string    `validate:"required"`
}

// KindFromTag resolves a type tag, case-insensitively, to a course kind.
// Unsupported tags fail hard; the factory performs no fallback.
func KindFromTag(tag string) (CourseKind, error) {
	switch strings.ToLower(tag) {
	case CourseTypeMath:
		return CourseKind{Tag: CourseTypeMath}, nil
	case CourseTypeScience:
		return CourseKind{Tag: CourseTypeScience}, nil
	case CourseTypeHistory:
		return CourseKind{Tag: CourseTypeHistory}, nil
	case CourseTypeFrench:
		return CourseKind{Tag: CourseTypeFrench, Language: "French"}, nil
	case CourseTypeEnglish:
		return CourseKind{Tag: CourseTypeEnglish, Language: "English"}, nil
	case CourseTypeSpanish:
		return CourseKind{Tag: CourseTypeSpanish, Language: "Spanish"}, nil
	default:
		return CourseKind{}, appErrors.Clone(appErrors.ErrUnsupportedCourseType, "unsupported course type: "+tag)
	}
}

// Profile returns the variant's fixed materials, equipment and difficulty.
func (k CourseKind) Profile() CourseProfile {
	switch k.Tag {
	case CourseTypeMath:
		return CourseProfile{
			Materials:  []string{"Mathematics textbook", "Calculator", "Exercise workbook"},
			Equipment:  []string{"Scientific calculator"},
			Difficulty: DifficultyMedium,
		}
	case CourseTypeScience:
		return CourseProfile{
			Materials:  []string{"Science textbook", "Laboratory guide", "Experiment journal"},
			Equipment:  []string{"Laboratory equipment", "Lab coat", "Safety goggles"},
			Difficulty: DifficultyHard,
		}
	case CourseTypeHistory:
		return CourseProfile{
			Materials:  []string{"History textbook", "Historical atlas", "Archive documents"},
			Equipment:  nil,
			Difficulty: DifficultyEasy,
		}
	default:
		return CourseProfile{
			Materials:  []string{k.Language + " textbook", "Dictionary", "Exercise workbook"},
			Equipment:  []string{"Audio headset for listening exercises"},
			Difficulty: DifficultyMedium,
		}
	}
}

// NewCourse builds a course record of the given variant. The stored course
// type is the canonical lowercase tag, which CourseKindOf later re-derives
// the variant from.
func NewCourse(tag string, base CourseBase) (*models.Course, error) {
	kind, err := KindFromTag(tag)
	if err != nil {
		return nil, err
	}
	return &models.Course{
		Name:        base.Name,
		Description: base.Description,
		CourseType:  kind.Tag,
		StartDate:   base.StartDate,
		EndDate:     base.EndDate,
		TeacherID:   base.TeacherID,
	}, nil
}

// CourseKindOf re-derives the variant of a stored course from its course
// type. It assumes course_type is never mutated out of band.
func CourseKindOf(course models.Course) (CourseKind, error) {
	return KindFromTag(course.CourseType)
}

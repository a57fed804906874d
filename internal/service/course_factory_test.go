package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/school-core/pkg/errors"
)

func validCourseBase() CourseBase {
	start := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	return CourseBase{
		Name:        "Algebra II",
		Description: "Quadratics and beyond",
		StartDate:   start,
		EndDate:     start.AddDate(0, 9, 0),
		TeacherID:   "teacher-1",
	}
}

func TestKindFromTagIsCaseInsensitive(t *testing.T) {
	kind, err := KindFromTag("MATH")
	require.NoError(t, err)
	assert.Equal(t, CourseTypeMath, kind.Tag)

	kind, err = KindFromTag("French")
	require.NoError(t, err)
	assert.Equal(t, CourseTypeFrench, kind.Tag)
	assert.Equal(t, "French", kind.Language)
}

func TestKindFromTagUnsupported(t *testing.T) {
	_, err := KindFromTag("philosophy")
	require.Error(t, err)

	typed := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUnsupportedCourseType.Code, typed.Code)
	assert.Contains(t, typed.Message, "philosophy")
}

func TestMathProfile(t *testing.T) {
	kind, err := KindFromTag("math")
	require.NoError(t, err)

	profile := kind.Profile()
	assert.Equal(t, DifficultyMedium, profile.Difficulty)
	assert.Contains(t, profile.Equipment, "Scientific calculator")
	assert.Contains(t, profile.Materials, "Mathematics textbook")
}

func TestScienceProfile(t *testing.T) {
	kind, err := KindFromTag("science")
	require.NoError(t, err)

	profile := kind.Profile()
	assert.Equal(t, DifficultyHard, profile.Difficulty)
	assert.Contains(t, profile.Equipment, "Lab coat")
}

func TestHistoryProfileHasNoEquipment(t *testing.T) {
	kind, err := KindFromTag("history")
	require.NoError(t, err)

	profile := kind.Profile()
	assert.Equal(t, DifficultyEasy, profile.Difficulty)
	assert.Empty(t, profile.Equipment)
}

func TestLanguageProfilesShareShapeButNotMaterials(t *testing.T) {
	cases := map[string]string{
		"french":  "French textbook",
		"english": "English textbook",
		"spanish": "Spanish textbook",
	}
	for tag, textbook := range cases {
		kind, err := KindFromTag(tag)
		require.NoError(t, err)

		profile := kind.Profile()
		assert.Equal(t, DifficultyMedium, profile.Difficulty)
		assert.Contains(t, profile.Materials, textbook)
		assert.Contains(t, profile.Equipment, "Audio headset for listening exercises")
	}
}

func TestNewCourseStoresCanonicalTag(t *testing.T) {
	course, err := NewCourse("Science", validCourseBase())
	require.NoError(t, err)
	assert.Equal(t, CourseTypeScience, course.CourseType)

	kind, err := CourseKindOf(*course)
	require.NoError(t, err)
	assert.Equal(t, CourseTypeScience, kind.Tag)
}

func TestNewCourseUnsupportedTag(t *testing.T) {
	_, err := NewCourse("pottery", validCourseBase())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnsupportedCourseType.Code, appErrors.FromError(err).Code)
}

package core

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// FileNames holds the name of every dataset file, relative to Config.DataDir.
type FileNames struct {
	Subjects        string
	SectionList     string
	Sections        string
	SectionSubjects string
	StudentSubjects string
	TeacherSections string
	Attendance      string
	ExamDates       string
	Topics          string
	RollNumbers     string
	Submissions     string
	Users           string
}

type Config struct {
	Env      string
	AppName  string
	Debug    bool
	TestMode bool

	DataDir        string
	AssignmentsDir string
	CurriculumFile string // optional YAML override of the section naming convention

	AcademicYear string
	RollPrefix   string // prefix of student roll numbers, eg. 2025 -> 20250001
	AdminSecret  string // required to create an admin account

	RollbarToken string
	Build        string

	Files FileNames
}

// Path resolves a dataset file name inside the data directory.
func (c *Config) Path(name string) string {
	return filepath.Join(c.DataDir, name)
}

func setDefaults(v *viper.Viper) {
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", false)
	v.SetDefault("appName", "EduTrack")
	v.SetDefault("dataDir", ".")
	v.SetDefault("assignmentsDir", "assignments")
	v.SetDefault("curriculumFile", "curriculum.yaml")
	v.SetDefault("academicYear", "2024-2025")
	v.SetDefault("rollPrefix", "2025")
	v.SetDefault("adminSecret", "admin@123")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("build", "dev")

	v.SetDefault("files.subjects", "subjects.json")
	v.SetDefault("files.sectionList", "sectionlist.json")
	v.SetDefault("files.sections", "sections.json")
	v.SetDefault("files.sectionSubjects", "sectionsubjects.json")
	v.SetDefault("files.studentSubjects", "studentsubjects.json")
	v.SetDefault("files.teacherSections", "teachersections.json")
	v.SetDefault("files.attendance", "attendance_master.json")
	v.SetDefault("files.examDates", "exam_date.json")
	v.SetDefault("files.topics", "topics.json")
	v.SetDefault("files.rollNumbers", "rollnumbers.json")
	v.SetDefault("files.submissions", "submissions.json")
	v.SetDefault("files.users", "userdata.bin")
}

// LoadConfig builds the Config from defaults, an optional config/edutrack.yaml,
// an optional config/.env.<env> file and EDUTRACK_* environment variables.
func LoadConfig(workDir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (default), TEST, PROD
	if env == "" {
		env = "DEV"
	}
	if env == "TEST" {
		v.SetDefault("testMode", true)
	}

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(workDir, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "stat %s", dotEnvPath)
	}

	v.SetConfigName("edutrack")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(workDir, "config"))
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	v.SetEnvPrefix("edutrack")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	conf := fromViper(v)
	conf.Env = env
	if !filepath.IsAbs(conf.DataDir) {
		conf.DataDir = filepath.Join(workDir, conf.DataDir)
	}
	if !filepath.IsAbs(conf.AssignmentsDir) {
		conf.AssignmentsDir = filepath.Join(conf.DataDir, conf.AssignmentsDir)
	}
	if conf.CurriculumFile != "" && !filepath.IsAbs(conf.CurriculumFile) {
		conf.CurriculumFile = filepath.Join(conf.DataDir, conf.CurriculumFile)
	}
	return conf, nil
}

// DefaultConfig returns the built-in defaults rooted at dataDir, without reading
// the environment. Used by tests and tools.
func DefaultConfig(dataDir string) *Config {
	v := viper.New()
	setDefaults(v)
	conf := fromViper(v)
	conf.Env = "TEST"
	conf.TestMode = true
	conf.DataDir = dataDir
	conf.AssignmentsDir = filepath.Join(dataDir, conf.AssignmentsDir)
	conf.CurriculumFile = filepath.Join(dataDir, conf.CurriculumFile)
	return conf
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		AppName:        v.GetString("appName"),
		Debug:          v.GetBool("debug"),
		TestMode:       v.GetBool("testMode"),
		DataDir:        v.GetString("dataDir"),
		AssignmentsDir: v.GetString("assignmentsDir"),
		CurriculumFile: v.GetString("curriculumFile"),
		AcademicYear:   v.GetString("academicYear"),
		RollPrefix:     v.GetString("rollPrefix"),
		AdminSecret:    v.GetString("adminSecret"),
		RollbarToken:   v.GetString("rollbarToken"),
		Build:          v.GetString("build"),
		Files: FileNames{
			Subjects:        v.GetString("files.subjects"),
			SectionList:     v.GetString("files.sectionList"),
			Sections:        v.GetString("files.sections"),
			SectionSubjects: v.GetString("files.sectionSubjects"),
			StudentSubjects: v.GetString("files.studentSubjects"),
			TeacherSections: v.GetString("files.teacherSections"),
			Attendance:      v.GetString("files.attendance"),
			ExamDates:       v.GetString("files.examDates"),
			Topics:          v.GetString("files.topics"),
			RollNumbers:     v.GetString("files.rollNumbers"),
			Submissions:     v.GetString("files.submissions"),
			Users:           v.GetString("files.users"),
		},
	}
}

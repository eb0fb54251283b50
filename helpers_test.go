package octree

// recordingLogger captures messages for assertions in construction tests.
type recordingLogger struct {
	warnings []string
	errors   []string
}

func (l *recordingLogger) Warnf(format string, args ...interface{}) {
	l.warnings = append(l.warnings, format)
}

func (l *recordingLogger) Errorf(format string, args ...interface{}) {
	l.errors = append(l.errors, format)
}

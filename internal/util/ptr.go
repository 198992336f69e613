package util

import "time"

func StringPtr(v string) *string { return &v }

func TimePtr(v time.Time) *time.Time { return &v }

// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// 📦 Package retry provides bounded-attempt execution for fallible filesystem work.
//
// Filesystem operations fail transiently (locks, antivirus scans, slow
// unmounts), so every fallible step of archive processing runs through Do or
// DoValue. The executor never inspects the failure: every error is retryable
// until the attempt budget runs out, and the last reason is logged rather
// than swallowed.
package retry

import (
	"context"
	"time"

	"github.com/walteh/zipmerge/pkg/log"
)

// retryDelay is the fixed pause between attempts. Tests shorten it.
var retryDelay = 500 * time.Millisecond

// 🏃 Do invokes fn up to maxAttempts times, stopping on the first success.
//
// Each failed attempt is logged with its reason. On exhaustion a terminal
// failure is logged and false is returned; Do never panics and never
// propagates the error itself. Context cancellation during the backoff pause
// counts as terminal failure.
func Do(ctx context.Context, logger *log.Logger, name string, maxAttempts int, fn func() error) bool {
	_, ok := DoValue(ctx, logger, name, maxAttempts, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return ok
}

// 🏃 DoValue is Do for operations that produce a value.
//
// On success the value of the succeeding attempt is returned with true. On
// exhaustion the zero value is returned with false.
func DoValue[T any](ctx context.Context, logger *log.Logger, name string, maxAttempts int, fn func() (T, error)) (T, bool) {
	var zero T
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		value, err := fn()
		if err == nil {
			return value, true
		}

		logger.Warnf("%s failed (attempt %d/%d): %v", name, attempt, maxAttempts, err)

		if attempt == maxAttempts {
			break
		}

		select {
		case <-time.After(retryDelay):
		case <-ctx.Done():
			logger.Errorf("%s abandoned: %v", name, ctx.Err())
			return zero, false
		}
	}

	logger.Errorf("%s failed after %d attempt(s)", name, maxAttempts)
	return zero, false
}

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

package opts

import (
	"github.com/walteh/srcpatch/pkg/config"
	"github.com/walteh/srcpatch/pkg/log"
)

// 🎛️ RootOpts is the resolved state shared by every command
type RootOpts struct {
	Config     *config.Config // Validated run configuration
	Logger     *log.Logger    // Console and structured reporter
	DryRun     bool           // Report changes without writing
	Strict     bool           // Exit non-zero when any file failed
	ReportPath string         // Optional JSON report destination
}

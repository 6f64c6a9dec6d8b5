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

package scan

import (
	"fmt"
	"path/filepath"
)

const (
	// ArchiveExt is the archive extension matched during discovery,
	// case-insensitively
	ArchiveExt = ".zip"

	// ContentFolderName is the subfolder inside an extracted archive whose
	// contents get merged into the account folder
	ContentFolderName = "takeout"

	// TempFolderName is the scratch folder created next to each archive
	// during extraction
	TempFolderName = "temp_takeout"
)

// 📦 WorkItem describes one discovered archive and every path derived from
// it. Items are plain values, fixed at discovery time.
type WorkItem struct {
	ArchivePath string // absolute path of the archive file
	AccountDir  string // folder containing the archive, the merge target
	AccountName string // base name of AccountDir, used in logs
	TempRoot    string // AccountDir/temp_takeout, extraction scratch space
	ContentDir  string // TempRoot/takeout, the mergeable content root
}

// 🏭 NewItem derives a WorkItem from an archive path
func NewItem(archivePath string) WorkItem {
	accountDir := filepath.Dir(archivePath)
	tempRoot := filepath.Join(accountDir, TempFolderName)
	return WorkItem{
		ArchivePath: archivePath,
		AccountDir:  accountDir,
		AccountName: filepath.Base(accountDir),
		TempRoot:    tempRoot,
		ContentDir:  filepath.Join(tempRoot, ContentFolderName),
	}
}

// 📝 String returns a short identifier for logs
func (it WorkItem) String() string {
	return fmt.Sprintf("%s/%s", it.AccountName, filepath.Base(it.ArchivePath))
}

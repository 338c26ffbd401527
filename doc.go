// Copyright 2015 Google Inc. All Rights Reserved.
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

// Package llio provides portable, low-level asynchronous file I/O: raw
// native file handles, kernel memory sections, and memory-mapped views,
// with a uniform result-returning API across POSIX and Windows.
//
// The primary elements of interest are:
//
//   - FileHandle, an owning wrapper around a native file descriptor/handle
//     opened with File, RandomFile, TempFile or TempInode.
//
//   - SectionHandle and MapHandle, which let a FileHandle (or anonymous
//     memory) be mapped into the process address space for scatter-gather
//     access.
//
//   - AsyncFileHandle and IoService, which bind a FileHandle to a completion
//     drain loop so reads and writes can be submitted without blocking.
//
// This package does not implement a higher level file system, a coroutine
// framework, or directory enumeration; see spec.md for the full list of
// non-goals.
package llio

/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Command fabx generates data for types declared in HCL schemas.
//
//	fabx generate --schema people.hcl --type Person --seed 42
//	fabx generate -s people.hcl -t 'Pair(string, int)' -q '$.left'
//	fabx tree -s people.hcl -t Node --type-arg string
package main

func main() {
	Execute()
}

// Entry is the unit shared between the staging area and commit records.
package shared

// Entry records that a working-directory path, if committed now, would
// record the content named by Hash.
type Entry struct {
	Path string `json:"path"`
	Hash string `json:"hash"`
}

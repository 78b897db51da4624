// Package platform implements the file-level link strategies (hard link,
// symbolic link, content copy) and their matching identity checks.
package platform

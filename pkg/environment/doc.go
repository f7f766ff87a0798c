// Package environment parses target descriptors of the form
// "BROWSER,VERSION,PLATFORM;..." into TestEnvironments.
package environment

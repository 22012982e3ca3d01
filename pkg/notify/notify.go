// Package notify defines the events emitted by the download and install
// pipeline. Consumers implement Handler and report whether they consumed an
// event so that it can be offered to the next handler in a Chain.
package notify

import "fmt"

// Kind discriminates the notifications understood by toolup.
type Kind int

const (
	// Unrelated is any event that carries no download information.
	Unrelated Kind = iota
	// ContentLengthReceived reports the total size of a file about to be received.
	ContentLengthReceived
	// DataReceived reports a chunk of bytes received for a file.
	DataReceived
	// DownloadFinished reports that a file has been fully received.
	DownloadFinished
	// ComponentStarted reports that a component download is starting.
	ComponentStarted
	// PushUnit switches the unit of subsequent progress reports.
	PushUnit
	// PopUnit restores the previous unit.
	PopUnit
	// Extracting reports that a component archive is being unpacked.
	Extracting
	// Installed reports that a component has been installed.
	Installed
	// Skipped reports that a component was already installed.
	Skipped
)

var kindNames = [...]string{
	Unrelated:             "unrelated",
	ContentLengthReceived: "content-length",
	DataReceived:          "data",
	DownloadFinished:      "finished",
	ComponentStarted:      "component-started",
	PushUnit:              "push-unit",
	PopUnit:               "pop-unit",
	Extracting:            "extracting",
	Installed:             "installed",
	Skipped:               "skipped",
}

// String returns the string representation of the Kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Unit is the unit of measure for progress reports.
type Unit int

const (
	// Bytes measures progress in bytes.
	Bytes Unit = iota
	// Items measures progress in discrete items, e.g. archive entries.
	Items
)

// String returns the string representation of the Unit.
func (u Unit) String() string {
	if u == Items {
		return "items"
	}
	return "bytes"
}

// Notification is a single step of a download or install lifecycle.
// Immutable
type Notification struct {
	Kind Kind
	// Size is the content length for ContentLengthReceived and the chunk
	// length for DataReceived.
	Size int64
	// File is the path or URL the event refers to. It may be empty.
	File string
	// Component is set for component level events.
	Component string
	// Unit is set for PushUnit.
	Unit Unit
}

// ContentLength returns a ContentLengthReceived notification.
func ContentLength(size int64, file string) Notification {
	return Notification{Kind: ContentLengthReceived, Size: size, File: file}
}

// Data returns a DataReceived notification for a chunk of n bytes.
func Data(n int, file string) Notification {
	return Notification{Kind: DataReceived, Size: int64(n), File: file}
}

// Finished returns a DownloadFinished notification.
func Finished(file string) Notification {
	return Notification{Kind: DownloadFinished, File: file}
}

// Started returns a ComponentStarted notification.
func Started(component string) Notification {
	return Notification{Kind: ComponentStarted, Component: component}
}

// Push returns a PushUnit notification.
func Push(u Unit) Notification {
	return Notification{Kind: PushUnit, Unit: u}
}

// Pop returns a PopUnit notification.
func Pop() Notification {
	return Notification{Kind: PopUnit}
}

// Extract returns an Extracting notification for the archive at file.
func Extract(component, file string) Notification {
	return Notification{Kind: Extracting, Component: component, File: file}
}

// Install returns an Installed notification.
func Install(component, dir string) Notification {
	return Notification{Kind: Installed, Component: component, File: dir}
}

// Skip returns a Skipped notification.
func Skip(component, dir string) Notification {
	return Notification{Kind: Skipped, Component: component, File: dir}
}

func (n Notification) String() string {
	switch n.Kind {
	case ContentLengthReceived, DataReceived:
		return fmt.Sprintf("%s(%d, %q)", n.Kind, n.Size, n.File)
	case DownloadFinished:
		return fmt.Sprintf("%s(%q)", n.Kind, n.File)
	case PushUnit:
		return fmt.Sprintf("%s(%s)", n.Kind, n.Unit)
	case PopUnit, Unrelated:
		return n.Kind.String()
	default:
		return fmt.Sprintf("%s(%q)", n.Kind, n.Component)
	}
}

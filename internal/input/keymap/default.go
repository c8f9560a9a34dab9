package keymap

// DefaultKeymap returns the built-in editor bindings.
func DefaultKeymap() *Keymap {
	return &Keymap{
		Name:   "default",
		Source: "builtin",
		Bindings: []BindingSpec{
			// File
			{Command: "file.save", Keys: "Ctrl+s", Label: "Save", Category: "File"},
			{Command: "file.saveAs", Keys: "Ctrl+Shift+S", Label: "Save As...", Category: "File"},
			{Command: "file.saveAll", Keys: "Ctrl+k then s", Label: "Save All", Category: "File", When: "!terminalFocus"},
			{Command: "file.open", Keys: "Ctrl+o", Label: "Open File...", Category: "File"},
			{Command: "file.new", Keys: "Ctrl+n", Label: "New File", Category: "File"},
			{Command: "file.close", Keys: "Ctrl+w", Label: "Close Editor", Category: "File", When: "editorIsOpen"},
			{Command: "file.closeAll", Keys: "Ctrl+k then Ctrl+w", Label: "Close All Editors", Category: "File", When: "!terminalFocus"},
			{Command: "file.revert", Label: "Revert File", Category: "File"},

			// Edit
			{Command: "edit.undo", Keys: "Ctrl+z", Label: "Undo", Category: "Edit", When: "editorTextFocus && !editorReadonly"},
			{Command: "edit.redo", Keys: "Ctrl+Shift+Z", Label: "Redo", Category: "Edit", When: "editorTextFocus && !editorReadonly"},
			{Command: "edit.cut", Keys: "Ctrl+x", Label: "Cut", Category: "Edit"},
			{Command: "edit.copy", Keys: "Ctrl+c", Label: "Copy", Category: "Edit"},
			{Command: "edit.paste", Keys: "Ctrl+v", Label: "Paste", Category: "Edit"},
			{Command: "edit.selectAll", Keys: "Ctrl+a", Label: "Select All", Category: "Edit"},
			{Command: "edit.find", Keys: "Ctrl+f", Label: "Find", Category: "Edit"},
			{Command: "edit.replace", Keys: "Ctrl+h", Label: "Replace", Category: "Edit", When: "!editorReadonly"},
			{Command: "edit.commentLine", Keys: "Ctrl+/", Label: "Toggle Line Comment", Category: "Edit", When: "editorTextFocus && !editorReadonly"},
			{Command: "edit.addComment", Keys: "Ctrl+k then Ctrl+c", Label: "Add Line Comment", Category: "Edit", When: "editorTextFocus && !editorReadonly"},
			{Command: "edit.removeComment", Keys: "Ctrl+k then Ctrl+u", Label: "Remove Line Comment", Category: "Edit", When: "editorTextFocus && !editorReadonly"},
			{Command: "edit.formatDocument", Keys: "Shift+Alt+F", Label: "Format Document", Category: "Edit", When: "editorTextFocus && !editorReadonly"},
			{Command: "edit.formatSelection", Keys: "Ctrl+k then Ctrl+f", Label: "Format Selection", Category: "Edit", When: "editorHasSelection"},
			{Command: "edit.indentLine", Keys: "Ctrl+]", Label: "Indent Line", Category: "Edit", When: "editorTextFocus"},
			{Command: "edit.outdentLine", Keys: "Ctrl+[", Label: "Outdent Line", Category: "Edit", When: "editorTextFocus"},
			{Command: "edit.deleteLine", Keys: "Ctrl+Shift+K", Label: "Delete Line", Category: "Edit", When: "editorTextFocus && !editorReadonly"},
			{Command: "edit.moveLineUp", Keys: "Alt+ArrowUp", Label: "Move Line Up", Category: "Edit", When: "editorTextFocus && !editorReadonly"},
			{Command: "edit.moveLineDown", Keys: "Alt+ArrowDown", Label: "Move Line Down", Category: "Edit", When: "editorTextFocus && !editorReadonly"},

			// Navigation
			{Command: "nav.gotoLine", Keys: "Ctrl+g", Label: "Go to Line...", Category: "Navigation"},
			{Command: "nav.gotoFile", Keys: "Ctrl+p", Label: "Go to File...", Category: "Navigation"},
			{Command: "nav.gotoSymbol", Keys: "Ctrl+Shift+O", Label: "Go to Symbol...", Category: "Navigation"},
			{Command: "nav.gotoDefinition", Keys: "F12", Label: "Go to Definition", Category: "Navigation", When: "editorHasDefinitionProvider"},
			{Command: "nav.back", Keys: "Ctrl+Alt+-", Label: "Go Back", Category: "Navigation"},
			{Command: "nav.forward", Keys: "Ctrl+Shift+-", Label: "Go Forward", Category: "Navigation"},

			// View
			{Command: "view.commandPalette", Keys: "Ctrl+Shift+P", Label: "Command Palette", Category: "View"},
			{Command: "view.toggleSidebar", Keys: "Ctrl+b", Label: "Toggle Sidebar", Category: "View"},
			{Command: "view.toggleTerminal", Keys: "Ctrl+`", Label: "Toggle Terminal", Category: "View"},
			{Command: "view.zoomIn", Keys: "Ctrl+=", Label: "Zoom In", Category: "View"},
			{Command: "view.zoomOut", Keys: "Ctrl+-", Label: "Zoom Out", Category: "View"},
			{Command: "view.keyboardShortcuts", Keys: "Ctrl+k then Ctrl+s", Label: "Keyboard Shortcuts", Category: "View", When: "!terminalFocus"},
			{Command: "view.zenMode", Keys: "Ctrl+k then z", Label: "Zen Mode", Category: "View", When: "!terminalFocus"},
			{Command: "view.splitEditor", Keys: "Ctrl+\\", Label: "Split Editor", Category: "View", When: "editorIsOpen"},

			// Terminal
			{Command: "terminal.new", Keys: "Ctrl+Shift+`", Label: "New Terminal", Category: "Terminal"},
			{Command: "terminal.copySelection", Keys: "Ctrl+c", Label: "Copy Selection", Category: "Terminal", When: "terminalFocus && terminalTextSelected"},
			{Command: "terminal.clear", Keys: "Ctrl+k", Label: "Clear Terminal", Category: "Terminal", When: "terminalFocus"},
			{Command: "terminal.kill", Label: "Kill Terminal", Category: "Terminal"},

			// Suggest
			{Command: "suggest.trigger", Keys: "Ctrl+Space", Label: "Trigger Suggest", Category: "Suggest", When: "editorTextFocus && !editorReadonly"},
			{Command: "suggest.accept", Keys: "Tab", Label: "Accept Suggestion", Category: "Suggest", When: "suggestWidgetVisible"},
			{Command: "suggest.hide", Keys: "Escape", Label: "Hide Suggestions", Category: "Suggest", When: "suggestWidgetVisible"},

			// Debug
			{Command: "debug.start", Keys: "F5", Label: "Start Debugging", Category: "Debug", When: "!inDebugMode"},
			{Command: "debug.continue", Keys: "F5", Label: "Continue", Category: "Debug", When: "inDebugMode"},
			{Command: "debug.stepOver", Keys: "F10", Label: "Step Over", Category: "Debug", When: "inDebugMode"},
			{Command: "debug.stepInto", Keys: "F11", Label: "Step Into", Category: "Debug", When: "inDebugMode"},
			{Command: "debug.toggleBreakpoint", Keys: "F9", Label: "Toggle Breakpoint", Category: "Debug", When: "editorTextFocus"},
		},
	}
}

// DefaultBindings returns the built-in command bindings in declaration
// order.
func DefaultBindings() []CommandBinding {
	bindings, errs := DefaultKeymap().CommandBindings()
	if len(errs) > 0 {
		panic("invalid default keymap: " + errs[0].Error())
	}
	return bindings
}

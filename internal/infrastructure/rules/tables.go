package rules

// Patterns are matched against the trimmed, lowercased command, so uppercase
// flags (chmod -R) appear here in lowercase form.
func defaultPatterns() []DangerPattern {
	return []DangerPattern{
		{Pattern: `rm\s+-rf\s+/`, Message: "recursive delete from the filesystem root"},
		{Pattern: `rm\s+-rf\s+\*`, Message: "recursive delete of everything in place"},
		{Pattern: `dd\s+if=/dev/(zero|u?random)`, Message: "raw overwrite from a device source"},
		{Pattern: `mkfs\.`, Message: "filesystem formatting"},
		{Pattern: `fdisk\s+/dev`, Message: "disk partitioning"},
		{Pattern: `parted\s+/dev`, Message: "disk partitioning"},
		{Pattern: `chmod\s+777\s+-r`, Message: "recursive world-writable permissions"},
		{Pattern: `chmod\s+-r\s+777`, Message: "recursive world-writable permissions"},
		{Pattern: `:\(\)\{\s*:\|:&\s*\};`, Message: "fork bomb"},
		{Pattern: `wget.*\|\s*(ba)?sh`, Message: "piping a download into a shell"},
		{Pattern: `curl.*\|\s*(ba)?sh`, Message: "piping a download into a shell"},
		{Pattern: `>\s*/dev/(sd[a-z]|nvme)`, Message: "redirection into a block device"},
		{Pattern: `/etc/(shadow|passwd|sudoers)`, Message: "touches sensitive credential files"},
	}
}

func defaultSafeCommands() []string {
	return []string{
		// read-only inspection
		"ls", "cat", "grep", "find", "pwd", "whoami", "who", "w",
		"ps", "top", "htop", "free", "df", "du", "uname", "hostname",
		"date", "cal", "which", "whereis", "echo", "printenv", "env",
		"head", "tail", "more", "less", "man", "stat", "file",
		// development and build tools
		"git", "node", "npm", "yarn", "pnpm", "python", "python3", "pip",
		"java", "javac", "go", "cargo", "docker", "docker-compose",
		"make", "cmake",
		// archive tools; dangerous argument combinations are caught by the
		// pattern scan before this list is consulted
		"tar", "zip", "unzip", "gzip", "gunzip", "rar", "7z",
		"touch", "mkdir",
	}
}

func defaultModerateCommands() []string {
	return []string{
		"rm", "cp", "mv", "ln", "chmod", "chown",
		"apt-get", "apt", "yum", "dnf", "pacman", "brew",
		"systemctl", "service", "journalctl", "kill", "killall",
		"ssh", "scp", "rsync",
	}
}

package reasoning

import "fmt"

// systemPrompt pins the reasoner to its auditing role and the JSON-only reply.
const systemPrompt = "You are a Linux system security expert. Analyze command safety and respond with JSON only."

// policyPrompt embeds the command into the permissive allow-list policy: the
// audience is developers and operators, so routine development and file
// operations in non-system paths default to safe, while absolute system
// paths, destructive root operations and stealth/malware-style patterns are
// moderate or dangerous.
func policyPrompt(command string) string {
	return fmt.Sprintf(`You are auditing shell commands for developers and operators.
Your task is to decide whether a command poses a substantive threat to the
system. Apply a permissive allow-list policy: common development or file
operations that do not touch critical system directories are safe.

Command: %s

Reply with this JSON shape only:
{
  "level": "safe|moderate|dangerous",
  "reason": "short classification rationale",
  "suggestedAction": "recommended step (only for moderate/dangerous)",
  "consequences": "possible outcome (only for dangerous)"
}

Level definitions (match strictly):
- safe (pass without confirmation):
    1. Routine filesystem work in the current or user directory: mkdir, touch,
       cp, mv, rm on scratch files.
    2. Archiving and compression: tar, zip, unzip, gzip, gunzip, rar.
    3. Read-only inspection: ls, cat, grep, find, tail, less.
    4. Environment setup: standard package or language installs
       (apt/yum install, pip/npm/yarn install, go get).
    5. Development tools: compilers, script runs, git status/add/commit.
    6. Granting execute permission to a script: chmod +x.
    7. Restarting non-core services: systemctl restart docker/nginx.
- moderate (needs confirmation):
    1. Editing files under sensitive paths such as /etc, /boot, /usr/bin.
    2. Broad permission changes: chmod 777 or recursive -R over many files.
    3. Network architecture changes: firewall, interfaces, hosts file.
    4. High resource consumption that could stall the machine.
- dangerous (block or high risk):
    1. System destruction: rm -rf / or critical top-level directories,
       formatting disks (mkfs, fdisk).
    2. Malware-style behavior: reverse shells (bash -i), stealth download and
       execute (curl ... | bash), wiping audit logs.
    3. Raw device overwrite: dd if=/dev/zero of=/dev/sda.

Core decision logic:
1. Check the path: a relative target like build/ is usually safe, an absolute
   system target like /etc/hosts is not.
2. Check the action: everyday development work versus changing the operating
   system itself.
3. For tar, mkdir, touch, git and similar commands that do not overwrite
   critical system files, you must return safe.

Return the JSON only, no other explanation.`, command)
}

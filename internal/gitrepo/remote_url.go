package gitrepo

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	sshProtocolPrefixConstant           = "ssh://"
	sshUserDelimiterConstant            = "@"
	sshPathDelimiterConstant            = ":"
	httpsProtocolPrefixConstant         = "https://"
	httpProtocolPrefixConstant          = "http://"
	pathSeparatorConstant               = "/"
	gitSuffixConstant                   = ".git"
	remoteURLParseErrorTemplateConstant = "%s: %s"
	invalidRemoteURLMessageConstant     = "invalid remote url"
	requiredValueMessageConstant        = "value required"
)

// RemoteProtocol enumerates supported git remote protocols.
type RemoteProtocol string

// Supported remote protocols.
const (
	RemoteProtocolSSH   RemoteProtocol = RemoteProtocol("ssh")
	RemoteProtocolHTTPS RemoteProtocol = RemoteProtocol("https")
	RemoteProtocolHTTP  RemoteProtocol = RemoteProtocol("http")
)

// RemoteURL represents a structured git remote URL. Owner holds every segment
// between the host and the repository name, so nested groups survive parsing.
type RemoteURL struct {
	Protocol   RemoteProtocol
	Host       string
	Owner      string
	Repository string
}

// RemoteURLParseError indicates a remote string could not be parsed.
type RemoteURLParseError struct {
	Input   string
	Message string
}

// Error describes the parse failure.
func (parseError RemoteURLParseError) Error() string {
	return fmt.Sprintf(remoteURLParseErrorTemplateConstant, parseError.Input, parseError.Message)
}

// ParseRemoteURL converts a textual remote URL into a structured representation.
func ParseRemoteURL(remote string) (RemoteURL, error) {
	trimmedRemote := strings.TrimSpace(remote)
	if len(trimmedRemote) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: requiredValueMessageConstant}
	}

	switch {
	case strings.HasPrefix(trimmedRemote, httpsProtocolPrefixConstant):
		return parseWebRemote(trimmedRemote, RemoteProtocolHTTPS)
	case strings.HasPrefix(trimmedRemote, httpProtocolPrefixConstant):
		return parseWebRemote(trimmedRemote, RemoteProtocolHTTP)
	case strings.HasPrefix(trimmedRemote, sshProtocolPrefixConstant):
		return parseWebRemote(trimmedRemote, RemoteProtocolSSH)
	case strings.Contains(trimmedRemote, sshUserDelimiterConstant):
		return parseSCPRemote(trimmedRemote)
	default:
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}
}

// SanitizeRemoteURL removes user credentials from HTTP(S) remotes. SSH and
// scp-style remotes are returned unchanged since their user name is not a secret.
func SanitizeRemoteURL(remote string) string {
	trimmedRemote := strings.TrimSpace(remote)
	if !strings.HasPrefix(trimmedRemote, httpsProtocolPrefixConstant) && !strings.HasPrefix(trimmedRemote, httpProtocolPrefixConstant) {
		return trimmedRemote
	}
	parsedURL, parseError := url.Parse(trimmedRemote)
	if parseError != nil {
		return stripUserInfo(trimmedRemote)
	}
	parsedURL.User = nil
	return parsedURL.String()
}

func stripUserInfo(remote string) string {
	schemeEnd := strings.Index(remote, "//")
	if schemeEnd == -1 {
		return remote
	}
	authorityStart := schemeEnd + 2
	authorityEnd := strings.Index(remote[authorityStart:], pathSeparatorConstant)
	authority := remote[authorityStart:]
	if authorityEnd != -1 {
		authority = remote[authorityStart : authorityStart+authorityEnd]
	}
	userInfoEnd := strings.LastIndex(authority, sshUserDelimiterConstant)
	if userInfoEnd == -1 {
		return remote
	}
	return remote[:authorityStart] + remote[authorityStart+userInfoEnd+1:]
}

func parseWebRemote(remote string, protocol RemoteProtocol) (RemoteURL, error) {
	parsedURL, parseError := url.Parse(remote)
	if parseError != nil || len(parsedURL.Host) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: SanitizeRemoteURL(remote), Message: invalidRemoteURLMessageConstant}
	}
	owner, repository, splitError := splitOwnerAndRepository(strings.Trim(parsedURL.Path, pathSeparatorConstant))
	if splitError != nil {
		return RemoteURL{}, splitError
	}
	return RemoteURL{Protocol: protocol, Host: parsedURL.Hostname(), Owner: owner, Repository: repository}, nil
}

func parseSCPRemote(remote string) (RemoteURL, error) {
	hostAndPath := remote[strings.Index(remote, sshUserDelimiterConstant)+1:]
	host, path, found := strings.Cut(hostAndPath, sshPathDelimiterConstant)
	if !found || len(host) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}
	owner, repository, splitError := splitOwnerAndRepository(strings.Trim(path, pathSeparatorConstant))
	if splitError != nil {
		return RemoteURL{}, splitError
	}
	return RemoteURL{Protocol: RemoteProtocolSSH, Host: host, Owner: owner, Repository: repository}, nil
}

func splitOwnerAndRepository(path string) (string, string, error) {
	separatorIndex := strings.LastIndex(path, pathSeparatorConstant)
	if separatorIndex <= 0 {
		return "", "", RemoteURLParseError{Input: path, Message: invalidRemoteURLMessageConstant}
	}
	repository := strings.TrimSuffix(path[separatorIndex+1:], gitSuffixConstant)
	if len(repository) == 0 {
		return "", "", RemoteURLParseError{Input: path, Message: invalidRemoteURLMessageConstant}
	}
	return path[:separatorIndex], repository, nil
}

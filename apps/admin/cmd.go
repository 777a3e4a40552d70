package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"github.com/darasahq/darasa/core/session"
	"github.com/darasahq/darasa/services/schoolapi"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp        = errors.New("help provided")
	errNotSignedIn = errors.New("not signed in; run `darasa login` first")
)

type commandLine struct {
	ctrl *session.Controller
	api  *schoolapi.Client
	out  io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  login -email EMAIL                                - sign in; the password will be prompted")
	fmt.Fprintln(cli.out, "  whoami                                            - show the signed-in user")
	fmt.Fprintln(cli.out, "  listusers                                         - list the school's users")
	fmt.Fprintln(cli.out, "  adduser -email EMAIL -first NAME -last NAME -role ROLE - create a user; password prompted")
	fmt.Fprintln(cli.out, "  logout                                            - sign out and forget the stored session")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	loginCmd := flag.NewFlagSet("login", flag.ExitOnError)
	loginEmail := loginCmd.String("email", "", "The account email. The password will be prompted next.")

	addUserCmd := flag.NewFlagSet("adduser", flag.ExitOnError)
	addUserEmail := addUserCmd.String("email", "", "The new user's email.")
	addUserFirst := addUserCmd.String("first", "", "The new user's first name.")
	addUserLast := addUserCmd.String("last", "", "The new user's last name.")
	addUserRole := addUserCmd.String("role", session.RoleTeacher, "One of: admin, principal, teacher, student.")

	switch args[1] {
	case "login":
		if err := loginCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *loginEmail == "" {
			loginCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			loginCmd.Usage()
			return errHelp
		}
		return cli.login(*loginEmail, pwd)
	case "whoami":
		return cli.whoami()
	case "listusers":
		return cli.listUsers()
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserEmail == "" || *addUserFirst == "" || !session.ValidRole(*addUserRole) {
			addUserCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(*addUserEmail, *addUserFirst, *addUserLast, *addUserRole, pwd)
	case "logout":
		cli.ctrl.Logout()
		fmt.Fprintln(cli.out, "signed out")
		return nil
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword() (string, error) {
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

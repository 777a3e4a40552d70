package main

import (
	"context"
	"fmt"

	"github.com/darasahq/darasa/services/schoolapi"
)

func (cli *commandLine) login(email, password string) error {
	if err := cli.ctrl.Login(context.Background(), email, password); err != nil {
		return err
	}
	usr := cli.ctrl.Current().User
	fmt.Fprintf(cli.out, "signed in as %s %s <%s> (%s)\n", usr.FirstName, usr.LastName, usr.Email, usr.Role)
	return nil
}

func (cli *commandLine) whoami() error {
	cur := cli.ctrl.Current()
	if !cur.Authenticated() {
		return errNotSignedIn
	}
	usr := cur.User
	fmt.Fprintf(cli.out, "%s %s <%s>\nrole: %s\nschool: %d\n", usr.FirstName, usr.LastName, usr.Email, usr.Role, usr.SchoolID)
	return nil
}

func (cli *commandLine) listUsers() error {
	cur := cli.ctrl.Current()
	if !cur.Authenticated() {
		return errNotSignedIn
	}
	users, err := cli.api.Users(context.Background(), cur.User.SchoolID)
	if err != nil {
		return err
	}
	for _, usr := range users {
		active := "active"
		if !usr.IsActive {
			active = "inactive"
		}
		fmt.Fprintf(cli.out, "%d\t%s %s\t%s\t%s\t%s\n", usr.ID, usr.FirstName, usr.LastName, usr.Email, usr.Role, active)
	}
	return nil
}

func (cli *commandLine) addUser(email, first, last, role, password string) error {
	cur := cli.ctrl.Current()
	if !cur.Authenticated() {
		return errNotSignedIn
	}
	usr, err := cli.api.CreateUser(context.Background(), cur.User.SchoolID, schoolapi.NewUser{
		FirstName: first,
		LastName:  last,
		Email:     email,
		Password:  password,
		Role:      role,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "created user %d: %s %s <%s> (%s)\n", usr.ID, usr.FirstName, usr.LastName, usr.Email, usr.Role)
	return nil
}

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/persistence/rdb"
)

func newCreateAdminCmd() *cobra.Command {
	var (
		email    string
		name     string
		phone    string
		password string
	)

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "创建管理员账号",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, cleanup, err := bootstrap()
			if err != nil {
				return err
			}
			defer cleanup()

			if password == "" {
				password, err = promptPassword()
				if err != nil {
					return err
				}
			}

			db, err := rdb.NewDB(cfg, log)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			svc := user.NewService(rdb.NewUserRepository(db))
			u, err := svc.Register(contextOrBackground(cmd.Context()), user.RegisterParams{
				Email:    email,
				Password: password,
				Name:     name,
				Phone:    phone,
				Role:     user.RoleAdmin,
			})
			if err != nil {
				return err
			}

			log.Info("admin created", slog.String("user_id", u.ID), slog.String("email", u.Email))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "邮箱")
	cmd.Flags().StringVar(&name, "name", "Administrator", "姓名")
	cmd.Flags().StringVar(&phone, "phone", "", "电话")
	cmd.Flags().StringVar(&password, "password", "", "密码(为空时从终端读取)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

// promptPassword 从终端读取两次密码，输入不回显
func promptPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("stdin is not a terminal, use --password")
	}

	read := func(prompt string) (string, error) {
		fmt.Fprint(os.Stderr, prompt)
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}

	first, err := read("Password: ")
	if err != nil {
		return "", err
	}
	second, err := read("Confirm password: ")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", errors.New("passwords do not match")
	}
	return first, nil
}

